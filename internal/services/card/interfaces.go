package card

import (
	"context"

	"bankcards/internal/models"
	"bankcards/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service manages card issuance, lookup and lifecycle.
type Service interface {
	CreateCard(ctx context.Context, userID uint, cardType, currency string) (*models.Card, error)
	GetCard(ctx context.Context, cardID uint) (*models.Card, error)
	GetUserCards(ctx context.Context, userID uint) ([]models.Card, error)
	GetActiveUserCards(ctx context.Context, userID uint) ([]models.Card, error)
	SearchUserCards(ctx context.Context, userID uint, filter repositories.CardFilter, limit, offset int) ([]models.Card, int64, error)
	GetTotalBalance(ctx context.Context, userID uint) (decimal.Decimal, error)

	// Lifecycle transitions
	Block(ctx context.Context, cardID uint) (*models.Card, error)
	Unblock(ctx context.Context, cardID uint) (*models.Card, error)
	Deactivate(ctx context.Context, cardID uint) (*models.Card, error)

	// MaskedNumber decrypts a card number and masks all but the last four
	// digits for output.
	MaskedNumber(card *models.Card) string
}

// Cache is the card read cache consumed by the service.
type Cache interface {
	GetCard(ctx context.Context, cardID uint) (*models.Card, error)
	SetCard(ctx context.Context, card *models.Card) error
	InvalidateCard(ctx context.Context, cardID uint) error
}

// Encryptor protects card numbers at rest.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
