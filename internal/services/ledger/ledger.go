// Package ledger holds the balance and credit-limit rules for cards.
//
// The mutators are unconditional: they trust that the caller validated
// sufficiency beforehand, which keeps them composable and testable in
// isolation. Only the transfer engine calls them, under row locks.
package ledger

import (
	"bankcards/internal/models"

	"github.com/shopspring/decimal"
)

// AvailableFunds returns the amount the card can spend. For DEBIT cards that
// is the balance; for CREDIT cards it is the unused portion of the credit
// limit, where a negative balance represents drawn-down credit.
func AvailableFunds(card *models.Card) decimal.Decimal {
	if card.CardType == models.CardTypeCredit {
		usedCredit := decimal.Zero
		if card.Balance.IsNegative() {
			usedCredit = card.Balance.Abs()
		}
		return card.CreditLimit.Sub(usedCredit)
	}
	return card.Balance
}

// HasSufficientFunds reports whether the card can cover amount.
func HasSufficientFunds(card *models.Card, amount decimal.Decimal) bool {
	return AvailableFunds(card).GreaterThanOrEqual(amount)
}

// Debit subtracts totalAmount from the card balance. Both card types use the
// same formula: a debit card moves toward zero, a credit card goes more
// negative, bounded by the sufficiency check performed beforehand.
func Debit(card *models.Card, totalAmount decimal.Decimal) {
	card.Balance = card.Balance.Sub(totalAmount)
}

// Credit adds amount to the card balance.
func Credit(card *models.Card, amount decimal.Decimal) {
	card.Balance = card.Balance.Add(amount)
}
