package repositories

import (
	"fmt"

	"bankcards/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(txn *models.Transaction) error {
	result := r.db.Create(txn)
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

func (r *transactionRepository) UpdateStatusIfPending(txn *models.Transaction, status string) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, models.TransactionStatusPending).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotPending
	}
	txn.Status = status
	return nil
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Preload("FromCard").Preload("FromCard.User").
		Preload("ToCard").Preload("ToCard.User").
		First(&txn, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Preload("FromCard").Preload("FromCard.User").
		Preload("ToCard").Preload("ToCard.User").
		Where("transaction_id = ?", transactionID).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by transaction id: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) GetAllForUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	base := r.db.Model(&models.Transaction{}).
		Joins("LEFT JOIN cards AS from_cards ON from_cards.id = transactions.from_card_id").
		Joins("JOIN cards AS to_cards ON to_cards.id = transactions.to_card_id").
		Where("from_cards.user_id = ? OR to_cards.user_id = ?", userID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user transactions: %w", err)
	}

	var txns []models.Transaction
	err := base.Preload("FromCard").Preload("FromCard.User").
		Preload("ToCard").Preload("ToCard.User").
		Order("transactions.created_at DESC, transactions.id DESC").
		Limit(limit).Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user transactions: %w", err)
	}
	return txns, total, nil
}
