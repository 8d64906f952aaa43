package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeTransfer = "TRANSFER"
	TransactionTypeDeposit  = "DEPOSIT"
)

// Transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusCancelled = "CANCELLED"
)

// Transaction records a single money movement between cards. Amount is the
// principal moved; Commission is charged on top of it, so the source card is
// debited Amount + Commission. FromCardID is nil for deposits.
type Transaction struct {
	ID            uint            `gorm:"primarykey"`
	TransactionID string          `gorm:"size:32;not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Type          string          `gorm:"size:10;not null"`
	Status        string          `gorm:"size:10;not null;default:'PENDING'"`
	Description   string          `gorm:"size:255"`
	Commission    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	FromCardID    *uint           `gorm:"index"`
	FromCard      *Card           `gorm:"foreignKey:FromCardID"`
	ToCardID      uint            `gorm:"not null;index"`
	ToCard        *Card           `gorm:"foreignKey:ToCardID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalAmount is the principal plus commission, the amount actually debited
// from the source card.
func (t *Transaction) TotalAmount() decimal.Decimal {
	return t.Amount.Add(t.Commission)
}

// IsTerminal reports whether the transaction reached a final status.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusFailed ||
		t.Status == TransactionStatusCancelled
}
