package handlers

import (
	"context"
	"strconv"

	"bankcards/internal/models"
	"bankcards/internal/repositories"
	"bankcards/internal/services/card"
	"bankcards/internal/utils"
	"bankcards/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cardService card.Service
}

func NewCardHandler(cardService card.Service) *CardHandler {
	return &CardHandler{cardService: cardService}
}

func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)

	var input struct {
		UserID   uint   `json:"user_id"`
		CardType string `json:"card_type"`
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	// Only admins may issue cards for other users.
	userID := claims.UserID
	if input.UserID != 0 && input.UserID != claims.UserID {
		if !claims.IsAdmin() {
			return utils.Forbidden(c, "cannot create cards for other users")
		}
		userID = input.UserID
	}

	created, err := h.cardService.CreateCard(c.Context(), userID, input.CardType, input.Currency)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Respond(c, fiber.StatusCreated, toCardResponse(h.cardService, created))
}

func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	cardID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	found, err := h.cardService.GetCard(c.Context(), cardID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if !h.canAccessCard(c, found) {
		return utils.Forbidden(c, "access denied")
	}
	return utils.Success(c, toCardResponse(h.cardService, found))
}

func (h *CardHandler) GetUserCards(c *fiber.Ctx) error {
	userID := h.targetUserID(c)

	cards, err := h.cardService.GetUserCards(c.Context(), userID)
	if err != nil {
		return utils.InternalError(c, "failed to get cards")
	}
	return utils.Success(c, fiber.Map{"cards": toCardResponses(h.cardService, cards)})
}

func (h *CardHandler) SearchCards(c *fiber.Ctx) error {
	userID := h.targetUserID(c)
	p := pagination.ParseFromRequest(c)

	var filter repositories.CardFilter
	if v := c.Query("card_type"); v != "" {
		filter.CardType = &v
	}
	if v := c.Query("currency"); v != "" {
		filter.Currency = &v
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return utils.BadRequest(c, "invalid active filter")
		}
		filter.Active = &active
	}
	if v := c.Query("blocked"); v != "" {
		blocked, err := strconv.ParseBool(v)
		if err != nil {
			return utils.BadRequest(c, "invalid blocked filter")
		}
		filter.Blocked = &blocked
	}

	cards, total, err := h.cardService.SearchUserCards(c.Context(), userID, filter, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to search cards")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, toCardResponses(h.cardService, cards)))
}

func (h *CardHandler) GetTotalBalance(c *fiber.Ctx) error {
	userID := h.targetUserID(c)

	total, err := h.cardService.GetTotalBalance(c.Context(), userID)
	if err != nil {
		return utils.InternalError(c, "failed to get total balance")
	}
	return utils.Success(c, fiber.Map{"total_balance": total})
}

func (h *CardHandler) BlockCard(c *fiber.Ctx) error {
	return h.lifecycle(c, h.cardService.Block)
}

func (h *CardHandler) UnblockCard(c *fiber.Ctx) error {
	return h.lifecycle(c, h.cardService.Unblock)
}

func (h *CardHandler) DeactivateCard(c *fiber.Ctx) error {
	return h.lifecycle(c, h.cardService.Deactivate)
}

func (h *CardHandler) lifecycle(c *fiber.Ctx, op func(ctx context.Context, cardID uint) (*models.Card, error)) error {
	cardID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	// Ownership check reads the card before the transition.
	existing, err := h.cardService.GetCard(c.Context(), cardID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	if !h.canAccessCard(c, existing) {
		return utils.Forbidden(c, "access denied")
	}

	updated, err := op(c.Context(), cardID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toCardResponse(h.cardService, updated))
}

func (h *CardHandler) canAccessCard(c *fiber.Ctx, card *models.Card) bool {
	claims := utils.ClaimsFromContext(c)
	if claims == nil {
		return false
	}
	return claims.IsAdmin() || card.UserID == claims.UserID
}

// targetUserID resolves which user's cards are being read: admins may pass
// user_id as a query parameter, everyone else sees their own.
func (h *CardHandler) targetUserID(c *fiber.Ctx) uint {
	claims := utils.ClaimsFromContext(c)
	if claims.IsAdmin() {
		if v := c.Query("user_id"); v != "" {
			if id, err := strconv.ParseUint(v, 10, 32); err == nil {
				return uint(id)
			}
		}
	}
	return claims.UserID
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
