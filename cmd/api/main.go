// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/domain/identity"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/domain/wishlist"
	"github.com/your-org/storefront-gateway/internal/infrastructure/database/postgres"
	redisconn "github.com/your-org/storefront-gateway/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/infrastructure/upstream"
	httpserver "github.com/your-org/storefront-gateway/internal/interfaces/http"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/routes"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
	"github.com/your-org/storefront-gateway/internal/pkg/cache"
	"github.com/your-org/storefront-gateway/internal/pkg/receipt"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"backend":     cfg.Storage.Backend,
	}).Info("Starting storefront gateway")

	// Pick the session store and query cache per the configured backend
	var (
		store       storage.Store
		queryCache  cache.Cache
		db          *gorm.DB
		redisClient *goredis.Client
	)

	switch cfg.Storage.Backend {
	case "redis":
		conn, err := redisconn.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer conn.Close()

		if err := conn.Health(); err != nil {
			log.Fatalf("Redis health check failed: %v", err)
		}

		redisClient = conn.GetClient()
		store = storage.NewRedisStore(redisClient, cfg.Storage.SessionTTL)
		queryCache = cache.NewRedisCache(redisClient, 5*time.Minute)

	case "database":
		conn, err := postgres.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()

		if err := conn.Health(); err != nil {
			log.Fatalf("Database health check failed: %v", err)
		}

		db = conn.GetDB()
		store, err = storage.NewDatabaseStore(db)
		if err != nil {
			log.Fatalf("Failed to prepare database store: %v", err)
		}
		queryCache = cache.NewMemoryCache()

	case "memory":
		store = storage.NewMemoryStore()
		queryCache = cache.NewMemoryCache()

	default:
		log.Fatalf("Unknown storage backend: %s", cfg.Storage.Backend)
	}

	// Wire the domain services
	sessions := identity.NewSessionRepository(store)
	client := upstream.NewClient(cfg, sessions, logger)
	jwtManager := auth.NewJWTManager(cfg)

	services := &routes.Services{
		Identity:  identity.NewService(sessions, client, jwtManager, logger),
		Products:  product.NewService(client, queryCache, store, logger),
		Carts:     cart.NewService(store, logger),
		Wishlists: wishlist.NewService(store, logger),
		Orders:    order.NewService(client, queryCache, logger),
		Receipts:  receipt.NewService(cfg),
	}
	services.Checkout = checkout.NewService(store, services.Carts, services.Orders, logger)

	server := httpserver.NewServer(cfg, services, logger, db, redisClient)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logger.Info("Server shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
