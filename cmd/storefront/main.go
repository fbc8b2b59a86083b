package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/server"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Connect to MySQL and migrate
	db, err := repository.OpenMySQL(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}

	// Redis backs sessions and the product cache
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	ctx := context.Background()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	logger.Info("Redis connected successfully")

	stores := server.Stores{
		Products:   repository.NewProductRepository(db),
		Categories: repository.NewCategoryRepository(db),
		Cart:       repository.NewCartRepository(db),
		Addresses:  repository.NewAddressRepository(db),
		Users:      repository.NewUserRepository(db),
		Orders:     repository.NewOrderRepository(db),
		Sessions:   redisRepo,
		Cache:      redisRepo,
	}

	// MongoDB audit trail is optional
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			logger.Warn("MongoDB connection failed, audit trail disabled", zap.Error(err))
		} else {
			defer mongoRepo.Close(ctx)
			if err := mongoRepo.Ping(ctx); err != nil {
				logger.Warn("MongoDB ping failed, audit trail disabled", zap.Error(err))
			} else {
				stores.Audit = mongoRepo
				logger.Info("MongoDB connected successfully")
			}
		}
	}

	srv := server.NewServer(cfg, logger, stores)
	srv.SetupRoutes()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	logger.Info("Storefront started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Storefront stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	if cfg.Level == "debug" || cfg.Encoding == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
