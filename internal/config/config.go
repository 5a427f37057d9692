package config

import (
	"crypto/rand"  // Random fallback secrets
	"encoding/hex" // Hex encoding of random bytes
	"fmt"          // Error formatting
	"time"         // Durations

	"github.com/caarlos0/env/v11" // Typed environment parsing
	"github.com/joho/godotenv"    // For loading .env files
	"golang.org/x/crypto/bcrypt"  // bcrypt cost bounds
)

const (
	DriverSQLite = "sqlite" // Embedded database file
	DriverMySQL  = "mysql"  // MySQL server
)

// Config holds the application configuration
type Config struct {
	AppPort       string        `env:"APP_PORT" envDefault:"3000"`                   // Application port
	DBDriver      string        `env:"DB_DRIVER" envDefault:"sqlite"`                // Database driver: sqlite or mysql
	DBPath        string        `env:"DB_PATH" envDefault:"data/kindred.db"`         // SQLite database file
	DBUser        string        `env:"DB_USER"`                                      // Database user
	DBPassword    string        `env:"DB_PASSWORD"`                                  // Database password
	DBHost        string        `env:"DB_HOST" envDefault:"127.0.0.1"`               // Database host
	DBPort        string        `env:"DB_PORT" envDefault:"3306"`                    // Database port
	DBName        string        `env:"DB_NAME" envDefault:"kindred"`                 // Database name
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`       // Redis server address
	RedisPass     string        `env:"REDIS_PASS"`                                   // Redis password
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`                      // Redis database number
	SessionSecret string        `env:"SESSION_SECRET"`                               // Session token signing key
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"8h"`                  // Absolute session lifetime
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`             // Send the session cookie over HTTPS only
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`                  // Password hashing cost
	AdminEmail    string        `env:"ADMIN_EMAIL" envDefault:"admin@kindred.local"` // Seeded administrator email
	AdminPassword string        `env:"ADMIN_PASSWORD"`                               // Seeded administrator password
	ListCacheTTL  time.Duration `env:"LIST_CACHE_TTL" envDefault:"60s"`              // Admin listing cache lifetime
	IsProd        bool          `env:"IS_PROD" envDefault:"false"`                   // Is production environment
}

// LoadConfig loads configuration from the environment, reading a .env file first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	// Without a configured secret, sessions only survive until the next restart
	if cfg.SessionSecret == "" {
		secret, err := randomHex(32)
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that the environment parser cannot
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ListCacheTTL < 0 {
		return fmt.Errorf("LIST_CACHE_TTL must not be negative")
	}
	return nil
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

// randomHex returns n random bytes encoded as hex
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomPassword returns a random 16 character password for seeded accounts
func RandomPassword() (string, error) {
	return randomHex(8)
}
