package ledger

import (
	"testing"

	"bankcards/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debitCard(balance string) *models.Card {
	return &models.Card{
		CardType: models.CardTypeDebit,
		Balance:  dec(balance),
	}
}

func creditCard(balance, limit string) *models.Card {
	return &models.Card{
		CardType:    models.CardTypeCredit,
		Balance:     dec(balance),
		CreditLimit: dec(limit),
	}
}

func TestAvailableFunds(t *testing.T) {
	tests := []struct {
		name string
		card *models.Card
		want string
	}{
		{"debit card returns balance", debitCard("1000.00"), "1000.00"},
		{"debit card at zero", debitCard("0.00"), "0.00"},
		{"credit card untouched limit", creditCard("0.00", "1000.00"), "1000.00"},
		{"credit card partially drawn", creditCard("-900.00", "1000.00"), "100.00"},
		{"credit card fully drawn", creditCard("-1000.00", "1000.00"), "0.00"},
		{"credit card with positive balance keeps full limit", creditCard("250.00", "1000.00"), "1000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(AvailableFunds(tt.card)),
				"want %s, got %s", tt.want, AvailableFunds(tt.card))
		})
	}
}

func TestHasSufficientFunds(t *testing.T) {
	t.Run("debit exact amount is sufficient", func(t *testing.T) {
		assert.True(t, HasSufficientFunds(debitCard("101.00"), dec("101.00")))
	})

	t.Run("debit below amount is insufficient", func(t *testing.T) {
		assert.False(t, HasSufficientFunds(debitCard("50.00"), dec("100.00")))
	})

	t.Run("credit drawn near limit is insufficient", func(t *testing.T) {
		// available = 1000 - 900 = 100 < 150
		assert.False(t, HasSufficientFunds(creditCard("-900.00", "1000.00"), dec("150.00")))
	})

	t.Run("credit at exact remaining limit is sufficient", func(t *testing.T) {
		assert.True(t, HasSufficientFunds(creditCard("-900.00", "1000.00"), dec("100.00")))
	})
}

func TestDebitAndCredit(t *testing.T) {
	t.Run("debit subtracts total from debit card", func(t *testing.T) {
		card := debitCard("1000.00")
		Debit(card, dec("101.00"))
		assert.True(t, dec("899.00").Equal(card.Balance))
	})

	t.Run("debit drives credit card negative", func(t *testing.T) {
		card := creditCard("0.00", "1000.00")
		Debit(card, dec("101.00"))
		assert.True(t, dec("-101.00").Equal(card.Balance))
	})

	t.Run("credit adds amount", func(t *testing.T) {
		card := debitCard("300.00")
		Credit(card, dec("200.00"))
		assert.True(t, dec("500.00").Equal(card.Balance))
	})

	t.Run("available funds shrink by exactly the debited total", func(t *testing.T) {
		for _, card := range []*models.Card{debitCard("500.00"), creditCard("-100.00", "1000.00")} {
			before := AvailableFunds(card)
			Debit(card, dec("123.45"))
			after := AvailableFunds(card)
			assert.True(t, before.Sub(dec("123.45")).Equal(after))
		}
	})
}
