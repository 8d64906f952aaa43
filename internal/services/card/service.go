package card

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	domainerrors "bankcards/internal/errors"
	"bankcards/internal/models"
	"bankcards/internal/repositories"
	"bankcards/internal/utils"

	"github.com/shopspring/decimal"
)

type service struct {
	store     repositories.Store
	cache     Cache
	encryptor Encryptor
	config    Config
}

// NewService creates a new card service. Cache may be nil, in which case
// reads always hit the database.
func NewService(store repositories.Store, cache Cache, encryptor Encryptor, config Config) Service {
	if store == nil {
		panic("store is required")
	}
	if encryptor == nil {
		panic("encryptor is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.CreditLimit.IsZero() {
		config.CreditLimit = DefaultCreditLimit
	}
	if config.ExpiryYears == 0 {
		config.ExpiryYears = DefaultExpiryYears
	}

	return &service{
		store:     store,
		cache:     cache,
		encryptor: encryptor,
		config:    config,
	}
}

func (s *service) CreateCard(ctx context.Context, userID uint, cardType, currency string) (*models.Card, error) {
	if cardType != models.CardTypeDebit && cardType != models.CardTypeCredit {
		return nil, domainerrors.ErrInvalidOperation.WithMessage("unknown card type: %s", cardType)
	}

	user, err := s.store.Users().GetByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	number, err := generateCardNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	encrypted, err := s.encryptor.Encrypt(number)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt card number: %w", err)
	}

	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	card := &models.Card{
		CardNumber:     encrypted,
		CardNumberHash: utils.HashCardNumber(number),
		CardHolderName: user.FullName(),
		CardType:       cardType,
		Currency:       currency,
		Balance:        decimal.Zero,
		CreditLimit:    decimal.Zero,
		Active:         true,
		Blocked:        false,
		ExpiryDate:     time.Now().AddDate(s.config.ExpiryYears, 0, 0),
		UserID:         user.ID,
	}
	if cardType == models.CardTypeCredit {
		card.CreditLimit = s.config.CreditLimit
	}

	if err := s.store.Cards().Create(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	log.Printf("card %d issued for user %d (%s)", card.ID, user.ID, cardType)
	return card, nil
}

func (s *service) GetCard(ctx context.Context, cardID uint) (*models.Card, error) {
	if s.cache != nil {
		if card, err := s.cache.GetCard(ctx, cardID); err == nil {
			return card, nil
		}
	}

	card, err := s.store.Cards().GetByID(cardID)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, domainerrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCard(ctx, card); err != nil {
			log.Printf("failed to cache card %d: %v", cardID, err)
		}
	}
	return card, nil
}

func (s *service) GetUserCards(ctx context.Context, userID uint) ([]models.Card, error) {
	return s.store.Cards().GetByUserID(userID)
}

func (s *service) GetActiveUserCards(ctx context.Context, userID uint) ([]models.Card, error) {
	return s.store.Cards().GetActiveByUserID(userID)
}

func (s *service) SearchUserCards(ctx context.Context, userID uint, filter repositories.CardFilter, limit, offset int) ([]models.Card, int64, error) {
	return s.store.Cards().Search(userID, filter, limit, offset)
}

func (s *service) GetTotalBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.store.Cards().GetTotalBalance(userID)
}

func (s *service) Block(ctx context.Context, cardID uint) (*models.Card, error) {
	return s.transition(ctx, cardID, func(card *models.Card) error {
		if !card.Active {
			return domainerrors.ErrInvalidOperation.WithMessage("cannot block an inactive card")
		}
		if card.Blocked {
			return domainerrors.ErrInvalidOperation.WithMessage("card is already blocked")
		}
		card.Blocked = true
		return nil
	})
}

func (s *service) Unblock(ctx context.Context, cardID uint) (*models.Card, error) {
	return s.transition(ctx, cardID, func(card *models.Card) error {
		if !card.Active {
			return domainerrors.ErrInvalidOperation.WithMessage("cannot unblock an inactive card")
		}
		if !card.Blocked {
			return domainerrors.ErrInvalidOperation.WithMessage("card is not blocked")
		}
		card.Blocked = false
		return nil
	})
}

func (s *service) Deactivate(ctx context.Context, cardID uint) (*models.Card, error) {
	return s.transition(ctx, cardID, func(card *models.Card) error {
		if !card.Active {
			return domainerrors.ErrInvalidOperation.WithMessage("card is already deactivated")
		}
		if !card.Balance.IsZero() {
			return domainerrors.ErrInvalidOperation.WithMessage("cannot deactivate a card with non-zero balance")
		}
		card.Active = false
		return nil
	})
}

// transition applies a lifecycle change under a row lock so it cannot
// interleave with a concurrent transfer touching the same card.
func (s *service) transition(ctx context.Context, cardID uint, change func(*models.Card) error) (*models.Card, error) {
	var updated *models.Card
	err := s.store.ExecuteInTransaction(func(tx repositories.Store) error {
		card, err := tx.Cards().GetByIDForUpdate(cardID)
		if err != nil {
			if err == repositories.ErrCardNotFound {
				return domainerrors.ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		if err := change(card); err != nil {
			return err
		}
		if err := tx.Cards().Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCard(ctx, cardID); err != nil {
			log.Printf("failed to invalidate card %d cache: %v", cardID, err)
		}
	}
	return updated, nil
}

func (s *service) MaskedNumber(card *models.Card) string {
	number, err := s.encryptor.Decrypt(card.CardNumber)
	if err != nil {
		log.Printf("failed to decrypt card %d number: %v", card.ID, err)
		return "**** **** **** ****"
	}
	return utils.MaskCardNumber(number)
}

// generateCardNumber produces a 16-digit number starting with 4 or 5.
func generateCardNumber() (string, error) {
	digits := make([]byte, 16)
	first, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return "", err
	}
	digits[0] = byte('4' + first.Int64())
	for i := 1; i < len(digits); i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
