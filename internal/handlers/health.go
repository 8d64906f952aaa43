package handlers

import (
	"context"
	"time"

	"bankcards/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CardCache
}

func NewHealthHandler(db *gorm.DB, cardCache *cache.CardCache) *HealthHandler {
	return &HealthHandler{db: db, cache: cardCache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"status": "ok"}
	code := fiber.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unreachable"
		status["status"] = "degraded"
		code = fiber.StatusServiceUnavailable
	} else {
		status["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	return c.Status(code).JSON(status)
}
