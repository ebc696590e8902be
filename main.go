package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kedai/internal/app"
	"kedai/internal/config"
	"kedai/internal/database"
	"kedai/internal/services"
	"kedai/pkg/logger"
	"kedai/pkg/rabbitmq"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, zlog); err != nil {
		zlog.Error("Service stopped with error", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}
	zlog.Sync()
}

// run owns every resource it opens, so deferred cleanup happens on all exits.
func run(cfg *config.Config, zlog *zap.Logger) error {
	zlog.Info("Service configuration",
		zap.String("port", cfg.AppPort),
		zap.String("environment", cfg.Environment),
		zap.String("databaseDriver", cfg.DatabaseDriver),
		zap.Bool("eventsEnabled", cfg.RabbitMQURL != ""),
		zap.Duration("sessionTtl", cfg.SessionTTL))

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, zlog)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zlog.Error("Failed to close database", zap.Error(err))
		}
	}()

	// A nil *rabbitmq.Client must not become a non-nil interface value.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zlog)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				zlog.Error("Failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(rabbitmq.NewOrderEventLogger(zlog)); err != nil {
			zlog.Error("Failed to start order event consumer", zap.Error(err))
		}
	}

	application := app.New(cfg, db, publisher, zlog)
	if err := application.Seed(cfg, zlog); err != nil {
		return fmt.Errorf("failed to seed data: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.AppPort))
		listenErr <- application.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	zlog.Info("Shutting down server...")
	if err := application.Fiber.Shutdown(); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
	return nil
}
