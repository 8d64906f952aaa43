// Package main is the entry point for the card-management API server.
package main

import (
	"log"
	"time"

	"bankcards/internal/config"
	"bankcards/internal/handlers"
	"bankcards/internal/middleware"
	"bankcards/internal/repositories"
	"bankcards/internal/repositories/cache"
	"bankcards/internal/services/auth"
	"bankcards/internal/services/card"
	"bankcards/internal/services/transaction"
	"bankcards/internal/services/transfer"
	"bankcards/internal/services/user"
	"bankcards/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cardCache := cache.NewCardCache(redisClient, 5*time.Minute)
	defer cardCache.Close()

	encryptor, err := utils.NewCardEncryptor(config.GetEnv("CARD_ENCRYPTION_SECRET", "bankcards2024secretkey123456789012"))
	if err != nil {
		log.Fatalf("failed to initialize card encryptor: %v", err)
	}

	store := repositories.NewStore(db)

	authService := auth.NewService(store.Users())
	userService := user.NewService(store.Users())
	cardService := card.NewService(store, cardCache, encryptor, card.Config{
		DefaultCurrency: config.GetEnv("DEFAULT_CURRENCY", card.DefaultCurrency),
		CreditLimit:     config.GetDecimalEnv("CREDIT_CARD_LIMIT", "50000.00"),
		ExpiryYears:     config.GetIntEnv("CARD_EXPIRY_YEARS", card.DefaultExpiryYears),
	})
	transferService := transfer.NewService(store, cardCache, transfer.Config{
		CommissionRate:    config.GetDecimalEnv("TRANSFER_COMMISSION_RATE", "0.01"),
		MinTransferAmount: config.GetDecimalEnv("MIN_TRANSFER_AMOUNT", "0.01"),
		MinDepositAmount:  config.GetDecimalEnv("MIN_DEPOSIT_AMOUNT", "0.01"),
	}, nil)
	transactionService := transaction.NewService(store)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many requests, please try again later",
				})
			},
		}))
	}

	handlers.SetupRoutes(
		app,
		middleware.NewAuthMiddleware(authService),
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		handlers.NewCardHandler(cardService),
		handlers.NewTransferHandler(transferService, cardService),
		handlers.NewTransactionHandler(transactionService, cardService),
		handlers.NewHealthHandler(db, cardCache),
	)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
