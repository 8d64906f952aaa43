package card

import "github.com/shopspring/decimal"

// Config holds card issuance settings, injected at construction so tests can
// vary them.
type Config struct {
	// DefaultCurrency is used when a create request carries no currency.
	DefaultCurrency string
	// CreditLimit is assigned to newly issued CREDIT cards.
	CreditLimit decimal.Decimal
	// ExpiryYears is the validity period of newly issued cards.
	ExpiryYears int
}

// Default configuration values
const (
	DefaultCurrency    = "USD"
	DefaultExpiryYears = 4
)

var DefaultCreditLimit = decimal.RequireFromString("50000.00")
