package handlers

import (
	"bankcards/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires handlers to the fiber application.
func SetupRoutes(
	app *fiber.App,
	authMW *middleware.AuthMiddleware,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	cardHandler *CardHandler,
	transferHandler *TransferHandler,
	transactionHandler *TransactionHandler,
	healthHandler *HealthHandler,
) {
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	authed := api.Group("", authMW.Handler)
	authed.Post("/auth/logout", authHandler.Logout)

	users := authed.Group("/users")
	users.Get("/me", userHandler.Me)
	adminUsers := users.Group("", middleware.AdminOnly)
	adminUsers.Get("/", userHandler.GetUsers)
	adminUsers.Get("/:id", userHandler.GetUser)
	adminUsers.Post("/:id/activate", userHandler.ActivateUser)
	adminUsers.Post("/:id/deactivate", userHandler.DeactivateUser)

	cards := authed.Group("/cards")
	cards.Post("/", cardHandler.CreateCard)
	cards.Get("/search", cardHandler.SearchCards)
	cards.Get("/balance", cardHandler.GetTotalBalance)
	cards.Get("/", cardHandler.GetUserCards)
	cards.Get("/:id", cardHandler.GetCard)
	cards.Post("/:id/block", cardHandler.BlockCard)
	cards.Post("/:id/unblock", cardHandler.UnblockCard)
	cards.Post("/:id/deactivate", cardHandler.DeactivateCard)
	cards.Post("/:id/deposit", transferHandler.Deposit)

	authed.Post("/transfers", transferHandler.Transfer)
	authed.Post("/transfers/own", transferHandler.TransferBetweenOwnCards)

	transactions := authed.Group("/transactions")
	transactions.Get("/", transactionHandler.GetUserTransactions)
	transactions.Get("/by-transaction-id/:transactionID", transactionHandler.GetByTransactionID)
	transactions.Get("/:id", transactionHandler.GetTransaction)
	transactions.Post("/:id/cancel", middleware.AdminOnly, transferHandler.Cancel)
}
