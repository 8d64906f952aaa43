package transfer

import (
	"context"

	"bankcards/internal/models"

	"github.com/shopspring/decimal"
)

// Service is the money-movement engine. Transfer and Deposit are synchronous:
// they return only once the transaction record is terminal.
type Service interface {
	// Transfer moves amount from a card to the card identified by number.
	Transfer(ctx context.Context, req TransferRequest) (*models.Transaction, error)

	// TransferBetweenOwnCards is Transfer with the added precondition that
	// both cards belong to the requesting user.
	TransferBetweenOwnCards(ctx context.Context, req OwnCardsTransferRequest) (*models.Transaction, error)

	// Deposit credits amount to a card with zero commission.
	Deposit(ctx context.Context, cardID uint, amount decimal.Decimal) (*models.Transaction, error)

	// Cancel moves a still-PENDING transaction to CANCELLED. It never
	// touches card balances: a pending transaction has not mutated any.
	Cancel(ctx context.Context, transactionID uint) (*models.Transaction, error)
}

// Cache is the card cache invalidated after balance mutations.
type Cache interface {
	InvalidateCard(ctx context.Context, cardID uint) error
}

// MetricsCollector records engine activity. A no-op implementation is used
// when none is configured.
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordCommission(amount decimal.Decimal)
	RecordError(operation, errType string)
}
