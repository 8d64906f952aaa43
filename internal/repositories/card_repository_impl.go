package repositories

import (
	"fmt"

	"bankcards/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.Card) error {
	result := r.db.Create(card)
	if result.Error != nil {
		return fmt.Errorf("failed to create card: %w", result.Error)
	}
	return nil
}

func (r *cardRepository) GetByID(id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.Preload("User").First(&card, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByIDForUpdate(id uint) (*models.Card, error) {
	var card models.Card
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to lock card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByNumberHash(hash string) (*models.Card, error) {
	var card models.Card
	err := r.db.Preload("User").Where("card_number_hash = ?", hash).First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card by number: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByUserID(userID uint) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get user cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) GetActiveByUserID(userID uint) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.Where("user_id = ? AND active = ?", userID, true).Order("id").Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active user cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) Search(userID uint, filter CardFilter, limit, offset int) ([]models.Card, int64, error) {
	query := r.db.Model(&models.Card{}).Where("user_id = ?", userID)
	if filter.CardType != nil {
		query = query.Where("card_type = ?", *filter.CardType)
	}
	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Blocked != nil {
		query = query.Where("blocked = ?", *filter.Blocked)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	var cards []models.Card
	err := query.Order("id").Limit(limit).Offset(offset).Find(&cards).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search cards: %w", err)
	}
	return cards, total, nil
}

func (r *cardRepository) Update(card *models.Card) error {
	result := r.db.Save(card)
	if result.Error != nil {
		return fmt.Errorf("failed to update card: %w", result.Error)
	}
	return nil
}

func (r *cardRepository) GetTotalBalance(userID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&models.Card{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get total balance: %w", err)
	}
	return total, nil
}
