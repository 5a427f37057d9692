package main

import (
	"context" // context package is needed for Redis operations

	"kindred/internal/api"     // Custom package for API handlers
	"kindred/internal/config"  // Custom package for configuration
	"kindred/internal/db"      // Custom package for database setup
	"kindred/internal/service" // Custom package for business rules
	"kindred/internal/session" // Custom package for sessions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	users, err := service.NewUserService(gdb, cfg.BcryptCost)
	if err != nil {
		logrus.Fatalf("failed to set up user service: %v", err)
	}
	if err := users.EnsureAdmin(context.Background(), cfg); err != nil {
		logrus.Fatalf("failed to seed admin account: %v", err)
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

	api.RegisterRoutes(r, api.Dependencies{
		DB:           gdb,                                                                // Database
		Redis:        redisClient,                                                        // Redis
		Users:        users,                                                              // User directory
		Participants: service.NewParticipantService(gdb),                                 // Participant registry
		Sessions:     session.NewManager(redisClient, cfg.SessionSecret, cfg.SessionTTL), // Sessions
		Cache:        api.NewListCache(redisClient, cfg.ListCacheTTL),                    // Listing cache
		Cookie:       api.CookieOptions{Secure: cfg.CookieSecure},                        // Cookie flags
	})

	logrus.Info("Kindred server running on :" + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {          // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
