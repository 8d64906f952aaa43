package handlers

import (
	"time"

	"bankcards/internal/models"
	"bankcards/internal/services/card"

	"github.com/shopspring/decimal"
)

// cardResponse is the wire shape of a card. Numbers leave the system masked.
type cardResponse struct {
	ID             uint            `json:"id"`
	CardNumber     string          `json:"card_number"`
	CardHolderName string          `json:"card_holder_name"`
	CardType       string          `json:"card_type"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Status         string          `json:"status"`
	Active         bool            `json:"active"`
	Blocked        bool            `json:"blocked"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	UserID         uint            `json:"user_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toCardResponse(cardSvc card.Service, c *models.Card) cardResponse {
	return cardResponse{
		ID:             c.ID,
		CardNumber:     cardSvc.MaskedNumber(c),
		CardHolderName: c.CardHolderName,
		CardType:       c.CardType,
		Currency:       c.Currency,
		Balance:        c.Balance,
		CreditLimit:    c.CreditLimit,
		Status:         c.Status(),
		Active:         c.Active,
		Blocked:        c.Blocked,
		ExpiryDate:     c.ExpiryDate,
		UserID:         c.UserID,
		CreatedAt:      c.CreatedAt,
	}
}

func toCardResponses(cardSvc card.Service, cards []models.Card) []cardResponse {
	out := make([]cardResponse, len(cards))
	for i := range cards {
		out[i] = toCardResponse(cardSvc, &cards[i])
	}
	return out
}

type transactionResponse struct {
	ID             uint            `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	Amount         decimal.Decimal `json:"amount"`
	Commission     decimal.Decimal `json:"commission"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Description    string          `json:"description"`
	FromCardID     *uint           `json:"from_card_id,omitempty"`
	FromCardNumber string          `json:"from_card_number,omitempty"`
	ToCardID       uint            `json:"to_card_id"`
	ToCardNumber   string          `json:"to_card_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toTransactionResponse(cardSvc card.Service, t *models.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            t.ID,
		TransactionID: t.TransactionID,
		Amount:        t.Amount,
		Commission:    t.Commission,
		TotalAmount:   t.TotalAmount(),
		Type:          t.Type,
		Status:        t.Status,
		Description:   t.Description,
		FromCardID:    t.FromCardID,
		ToCardID:      t.ToCardID,
		CreatedAt:     t.CreatedAt,
	}
	if t.FromCard != nil {
		resp.FromCardNumber = cardSvc.MaskedNumber(t.FromCard)
	}
	if t.ToCard != nil {
		resp.ToCardNumber = cardSvc.MaskedNumber(t.ToCard)
	}
	return resp
}

func toTransactionResponses(cardSvc card.Service, txns []models.Transaction) []transactionResponse {
	out := make([]transactionResponse, len(txns))
	for i := range txns {
		out[i] = toTransactionResponse(cardSvc, &txns[i])
	}
	return out
}

type userResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.FullName(),
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}
