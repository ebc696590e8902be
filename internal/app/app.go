// Package app wires repositories, services and handlers into a Fiber application.
package app

import (
	"errors"
	"time"

	"kedai/internal/config"
	"kedai/internal/database"
	"kedai/internal/handlers"
	"kedai/internal/middleware"
	"kedai/internal/repositories"
	"kedai/internal/services"
	"kedai/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the assembled service.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Foods    *services.FoodService
	Orders   *services.OrderService
	Sessions session.Store
}

// New builds the application on db. publisher may be nil to disable order events.
func New(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher, logger *zap.Logger) *App {
	userRepo := repositories.NewGORMUserRepository(db)
	foodRepo := repositories.NewGORMFoodRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db, logger)
	sessions := session.NewMemoryStore()

	policy := services.OrderPolicy{
		DefaultEstimatedMinutes: cfg.DefaultEstimatedMinutes,
		TaxPercent:              cfg.TaxPercent,
		DeliveryFee:             cfg.DeliveryFee,
		TrackingPollInterval:    cfg.TrackingPollInterval,
	}
	polls := handlers.PollIntervals{
		Tracking:  cfg.TrackingPollInterval,
		OrderList: cfg.OrderListPollInterval,
		Stats:     cfg.StatsPollInterval,
	}

	authService := services.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL, logger)
	userService := services.NewUserService(userRepo, sessions, logger)
	foodService := services.NewFoodService(foodRepo, logger)
	orderService := services.NewOrderService(orderRepo, publisher, policy, logger)
	statsService := services.NewStatsService(orderRepo, userRepo, foodRepo, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	foodHandler := handlers.NewFoodHandler(foodService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, polls, logger)
	adminHandler := handlers.NewAdminHandler(orderService, statsService, userService, polls, logger)

	app := fiber.New(fiber.Config{
		AppName:      "kedai",
		ErrorHandler: errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))

	requireSession := middleware.SessionRequired(authService, logger)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, requireSession)
	foodHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1, requireSession)

	admin := apiV1.Group("/admin", requireSession, middleware.AdminRequired())
	adminHandler.RegisterRoutes(admin)
	foodHandler.RegisterAdminRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if publisher != nil {
			events = "enabled"
		}
		if err := database.Ping(db); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
				"events":   events,
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   events,
		})
	})

	return &App{
		Fiber:    app,
		Auth:     authService,
		Foods:    foodService,
		Orders:   orderService,
		Sessions: sessions,
	}
}

// errorHandler renders errors that escape the handlers, such as unknown routes.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
