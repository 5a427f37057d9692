package main

import (
	"context" // Context for storage calls

	"kindred/internal/config"  // Custom import path (Config)
	"kindred/internal/db"      // Custom import path (Database)
	"kindred/internal/service" // Custom import path (Services)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	gdb, err := db.Open(cfg) // SQLite file or MySQL DSN, depending on DB_DRIVER
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	users, err := service.NewUserService(gdb, cfg.BcryptCost)
	if err != nil {
		logrus.Fatalf("failed to set up user service: %v", err)
	}
	if err := users.EnsureAdmin(context.Background(), cfg); err != nil {
		logrus.Fatalf("failed to seed admin account: %v", err)
	}
}
