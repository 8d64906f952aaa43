package handlers

import (
	"bankcards/internal/models"
	"bankcards/internal/services/card"
	"bankcards/internal/services/transaction"
	"bankcards/internal/utils"
	"bankcards/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactionService transaction.Service
	cardService        card.Service
}

func NewTransactionHandler(transactionService transaction.Service, cardService card.Service) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		cardService:        cardService,
	}
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	txn, err := h.transactionService.GetByID(c.Context(), id)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if !h.canAccessTransaction(c, txn) {
		return utils.Forbidden(c, "access denied")
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}

func (h *TransactionHandler) GetByTransactionID(c *fiber.Ctx) error {
	transactionID := c.Params("transactionID")
	if transactionID == "" {
		return utils.BadRequest(c, "transaction id is required")
	}

	txn, err := h.transactionService.GetByTransactionID(c.Context(), transactionID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if !h.canAccessTransaction(c, txn) {
		return utils.Forbidden(c, "access denied")
	}
	return utils.Success(c, toTransactionResponse(h.cardService, txn))
}

func (h *TransactionHandler) GetUserTransactions(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)
	p := pagination.ParseFromRequest(c)

	txns, total, err := h.transactionService.GetUserTransactions(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to get transactions")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, toTransactionResponses(h.cardService, txns)))
}

// canAccessTransaction allows admins and users owning either participating
// card.
func (h *TransactionHandler) canAccessTransaction(c *fiber.Ctx, txn *models.Transaction) bool {
	claims := utils.ClaimsFromContext(c)
	if claims == nil {
		return false
	}
	if claims.IsAdmin() {
		return true
	}
	if txn.FromCard != nil && txn.FromCard.UserID == claims.UserID {
		return true
	}
	return txn.ToCard != nil && txn.ToCard.UserID == claims.UserID
}
