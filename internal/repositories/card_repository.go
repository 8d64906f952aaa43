package repositories

import (
	"errors"

	"bankcards/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrCardNotFound          = errors.New("card not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction is not pending")
	ErrDuplicateCard         = errors.New("card already exists")
)

// CardFilter narrows card searches. Nil fields are not applied.
type CardFilter struct {
	CardType *string
	Currency *string
	Active   *bool
	Blocked  *bool
}

// CardRepository defines the interface for card-related database operations.
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id uint) (*models.Card, error)
	// GetByIDForUpdate loads a card under a row-level write lock. Only
	// meaningful inside ExecuteInTransaction; callers that need both cards
	// of a transfer must acquire them in ascending id order.
	GetByIDForUpdate(id uint) (*models.Card, error)
	GetByNumberHash(hash string) (*models.Card, error)
	GetByUserID(userID uint) ([]models.Card, error)
	GetActiveByUserID(userID uint) ([]models.Card, error)
	Search(userID uint, filter CardFilter, limit, offset int) ([]models.Card, int64, error)
	Update(card *models.Card) error
	GetTotalBalance(userID uint) (decimal.Decimal, error)
}
