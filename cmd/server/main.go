package main

import (
	"context"  // context package is needed for Redis operations
	"net/http" // Outbound HTTP clients

	"echo_bank/internal/api"     // Custom package for API handlers
	"echo_bank/internal/auth"    // Token verification
	"echo_bank/internal/config"  // Custom package for configuration
	"echo_bank/internal/db"      // MySQL document store
	"echo_bank/internal/nessie"  // Nessie API client
	"echo_bank/internal/plaid"   // Plaid API client
	"echo_bank/internal/service" // Business services
	"echo_bank/internal/store"   // Document store interface
	"echo_bank/internal/utils"   // Redis cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	docs := openStore(cfg)

	// Setup Redis client; caching is off without an address
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
	}
	cache := utils.NewCache(redisClient, cfg.CacheTTL)

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	bank := nessie.NewClient(cfg.NessieBaseURL, cfg.NessieAPIKey, &http.Client{Timeout: cfg.NessieTimeout})

	deps := api.Deps{
		Verifier:   verifier,
		Onboarding: service.NewOnboarding(verifier, bank, docs, cache, cfg.LinkGuard),
		Accounts:   service.NewAccounts(docs, cache),
		Users:      service.NewUsers(docs, cache, cfg.JWTSecret, cfg.JWTTTL),
	}
	if cfg.PlaidClientID != "" && cfg.PlaidSecret != "" {
		pc, err := plaid.NewClient(cfg.PlaidEnv, cfg.PlaidClientID, cfg.PlaidSecret, &http.Client{Timeout: cfg.NessieTimeout})
		if err != nil {
			logrus.Fatalf("invalid Plaid configuration: %v", err)
		}
		deps.Plaid = pc
	} else {
		logrus.Warn("Plaid credentials not set, link token endpoint disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, deps)

	logrus.WithField("store", cfg.StoreDriver).Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {                                     // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// openStore picks the document store backend named by STORE_DRIVER
func openStore(cfg *config.Config) store.DocumentStore {
	switch cfg.StoreDriver {
	case "memory":
		logrus.Warn("Using in-memory document store, data is lost on restart")
		return store.NewMemoryStore()
	case "mysql":
		gdb, err := db.Open(cfg.DSN())
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		return db.NewDocumentStore(gdb)
	default:
		logrus.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
		return nil
	}
}
