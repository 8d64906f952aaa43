package handlers

import (
	"bankcards/internal/services/user"
	"bankcards/internal/utils"
	"bankcards/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims := utils.ClaimsFromContext(c)
	if claims == nil {
		return utils.Unauthorized(c, "unauthenticated")
	}

	found, err := h.userService.Get(c.Context(), claims.UserID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toUserResponse(found))
}

func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	users, total, err := h.userService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list users")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, toUserResponses(users)))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	found, err := h.userService.Get(c.Context(), userID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toUserResponse(found))
}

func (h *UserHandler) ActivateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	updated, err := h.userService.Activate(c.Context(), userID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toUserResponse(updated))
}

func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	updated, err := h.userService.Deactivate(c.Context(), userID)
	if err != nil {
		return utils.RespondDomainError(c, err)
	}
	return utils.Success(c, toUserResponse(updated))
}
