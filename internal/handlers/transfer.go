package handlers

import (
	"bankcards/internal/services/card"
	"bankcards/internal/services/transfer"
	"bankcards/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransferHandler struct {
	transferService transfer.Service
	cardService     card.Service
}

func NewTransferHandler(transferService transfer.Service, cardService card.Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		cardService:     cardService,
	}
}

func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)

	var input struct {
		FromCardID   uint            `json:"from_card_id"`
		ToCardNumber string          `json:"to_card_number"`
		Amount       decimal.Decimal `json:"amount"`
		Description  string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if input.FromCardID == 0 || input.ToCardNumber == "" {
		return utils.BadRequest(c, "from_card_id and to_card_number are required")
	}

	// The source card must belong to the requester.
	fromCard, err := h.cardService.GetCard(c.Context(), input.FromCardID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if fromCard.UserID != claims.UserID && !claims.IsAdmin() {
		return utils.Forbidden(c, "source card does not belong to you")
	}

	txn, err := h.transferService.Transfer(c.Context(), transfer.TransferRequest{
		FromCardID:   input.FromCardID,
		ToCardNumber: input.ToCardNumber,
		Amount:       input.Amount,
		Description:  input.Description,
	})
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}

func (h *TransferHandler) TransferBetweenOwnCards(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)

	var input struct {
		FromCardID  uint            `json:"from_card_id"`
		ToCardID    uint            `json:"to_card_id"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if input.FromCardID == 0 || input.ToCardID == 0 {
		return utils.BadRequest(c, "from_card_id and to_card_id are required")
	}

	txn, err := h.transferService.TransferBetweenOwnCards(c.Context(), transfer.OwnCardsTransferRequest{
		FromCardID:  input.FromCardID,
		ToCardID:    input.ToCardID,
		Amount:      input.Amount,
		Description: input.Description,
		UserID:      claims.UserID,
	})
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}

func (h *TransferHandler) Deposit(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)

	cardID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	target, err := h.cardService.GetCard(c.Context(), cardID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if target.UserID != claims.UserID && !claims.IsAdmin() {
		return utils.Forbidden(c, "card does not belong to you")
	}

	txn, err := h.transferService.Deposit(c.Context(), cardID, input.Amount)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}

// Cancel is mounted behind middleware.AdminOnly.
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	txnID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	txn, err := h.transferService.Cancel(c.Context(), txnID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}
