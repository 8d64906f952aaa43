package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card types
const (
	CardTypeDebit  = "DEBIT"
	CardTypeCredit = "CREDIT"
)

// Card statuses, derived rather than stored. See Status.
const (
	CardStatusActive      = "ACTIVE"
	CardStatusBlocked     = "BLOCKED"
	CardStatusExpired     = "EXPIRED"
	CardStatusDeactivated = "DEACTIVATED"
)

// Card is a bank card. CardNumber holds the encrypted PAN; CardNumberHash is
// its SHA-256 digest, kept so a card can be looked up by number without
// decrypting every row. Balance is negative on a CREDIT card when credit is
// drawn.
type Card struct {
	ID             uint            `gorm:"primarykey"`
	CardNumber     string          `gorm:"size:128;not null;uniqueIndex"`
	CardNumberHash string          `gorm:"size:64;not null;uniqueIndex"`
	CardHolderName string          `gorm:"size:100;not null"`
	CardType       string          `gorm:"size:10;not null"`
	Currency       string          `gorm:"size:3;not null;default:'USD'"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
	Blocked        bool            `gorm:"not null;default:false"`
	ExpiryDate     time.Time       `gorm:"not null"`
	UserID         uint            `gorm:"not null;index"`
	User           *User           `gorm:"foreignKey:UserID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExpired reports whether the card's expiry date has passed. A card
// expiring today is still usable for the whole day.
func (c *Card) IsExpired() bool {
	today := time.Now().Truncate(24 * time.Hour)
	return c.ExpiryDate.Before(today)
}

// IsValid reports whether the card can participate in transfers: active, not
// blocked, not expired.
func (c *Card) IsValid() bool {
	return c.Active && !c.Blocked && !c.IsExpired()
}

// Status derives the presentation status. Deactivation dominates blocking,
// which dominates expiry.
func (c *Card) Status() string {
	switch {
	case !c.Active:
		return CardStatusDeactivated
	case c.Blocked:
		return CardStatusBlocked
	case c.IsExpired():
		return CardStatusExpired
	default:
		return CardStatusActive
	}
}
