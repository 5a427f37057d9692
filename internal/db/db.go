package db

import (
	"fmt"           // Error formatting
	"os"            // Directory creation for SQLite files
	"path/filepath" // Database file directory
	"strings"       // DSN inspection

	"kindred/internal/config" // Application configuration

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/logger"   // GORM logger levels
)

// Open connects to the database selected by the configuration
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return openDialector(mysql.Open(cfg.MySQLDSN()), cfg.IsProd)
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath, cfg.IsProd)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens (or creates) a SQLite database; path may also be a file: URI
func OpenSQLite(path string, quiet bool) (*gorm.DB, error) {
	// Create the parent directory for plain file paths
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}
	gdb, err := openDialector(sqlite.Open(path), quiet)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // SQLite serializes writers anyway
	// journal_mode may not be supported for in-memory databases, ignore errors
	_ = gdb.Exec("PRAGMA journal_mode=WAL").Error
	if err := gdb.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return gdb, nil
}

// openDialector opens a GORM connection with unique violations translated to gorm.ErrDuplicatedKey
func openDialector(d gorm.Dialector, quiet bool) (*gorm.DB, error) {
	level := logger.Warn // Log slow queries and errors
	if quiet {
		level = logger.Error
	}
	gdb, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,                          // Map driver errors to GORM errors
		Logger:         logger.Default.LogMode(level), // GORM query logging
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}
