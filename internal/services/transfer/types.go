package transfer

import "github.com/shopspring/decimal"

// TransferRequest describes a transfer to another user's card, addressed by
// card number the way a sender would see it.
type TransferRequest struct {
	FromCardID   uint
	ToCardNumber string
	Amount       decimal.Decimal
	Description  string
}

// OwnCardsTransferRequest describes a transfer between two cards of the same
// user, both addressed by id.
type OwnCardsTransferRequest struct {
	FromCardID  uint
	ToCardID    uint
	Amount      decimal.Decimal
	Description string
	UserID      uint
}

// Config holds engine settings, injected at construction so tests can vary
// rates and minimums.
type Config struct {
	// CommissionRate is multiplied with the principal and rounded to two
	// decimal places, half-up.
	CommissionRate decimal.Decimal
	// MinTransferAmount is the smallest accepted transfer principal.
	MinTransferAmount decimal.Decimal
	// MinDepositAmount is the smallest accepted deposit.
	MinDepositAmount decimal.Decimal
}

// Default descriptions
const (
	DefaultTransferDescription = "Card to card transfer"
	DepositDescription         = "Deposit to card"
)

var (
	DefaultCommissionRate    = decimal.RequireFromString("0.01")
	DefaultMinTransferAmount = decimal.RequireFromString("0.01")
	DefaultMinDepositAmount  = decimal.RequireFromString("0.01")
)
