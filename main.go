package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/NIORSAYSON/agriculture-system-api/config"
	"github.com/NIORSAYSON/agriculture-system-api/internal/ws"
	"github.com/NIORSAYSON/agriculture-system-api/middleware"
	"github.com/NIORSAYSON/agriculture-system-api/services"
	"github.com/NIORSAYSON/agriculture-system-api/utils"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	config.SeedCategories(db)
	config.SeedAccounts(db)
	config.SeedProducts(db)

	tokenTTL, err := time.ParseDuration(cfg.JWTExpiration)
	if err != nil {
		tokenTTL = 72 * time.Hour
	}

	verifier := &utils.TokenVerifier{
		LocalSecret:    []byte(cfg.JWTAccessSecret),
		ProviderIssuer: cfg.ProviderIssuer,
	}
	if cfg.ProviderPublicKeyPEM != "" {
		key, err := utils.ParseProviderPublicKey([]byte(cfg.ProviderPublicKeyPEM))
		if err != nil {
			logger.Fatal("invalid provider public key", zap.Error(err))
		}
		verifier.ProviderKey = key
	}

	hub := ws.NewHub(logger)
	go hub.Run()

	identity := services.NewIdentityService(db)
	carts := services.NewCartService(db)
	gate := services.NewStockGate(db)
	notifier := services.NewNotificationService(db, hub, logger)
	orders := services.NewOrderService(db, identity, carts, gate, notifier, hub, logger)

	app := fiber.New(fiber.Config{
		AppName:      "Agriculture System API",
		ServerHeader: "Agriculture System API/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	deps := routeDeps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Hub:      hub,
		Verifier: verifier,
		Identity: identity,
		Carts:    carts,
		Orders:   orders,
		Notifier: notifier,
		TokenTTL: tokenTTL,
	}
	setupRoutes(app, deps)

	middleware.SetupErrorHandler(app)

	logger.Info("server starting",
		zap.String("host", cfg.HOST),
		zap.String("port", cfg.AppPort),
	)
	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
