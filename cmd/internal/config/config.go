package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Env        string
	ServerAddr string
	LogLevel   string

	// Database
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Session tokens
	JWTSecret string
	TokenTTL  time.Duration

	FreeNoteLimit  int
	LoginRateLimit float64
	SeedDemoData   bool

	// Websocket gateway (optional)
	WSGatewayEndpoint string
	WSGatewayRegion   string
	WSCallbackSecret  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Env:        strings.ToLower(getEnv("GO_ENV", "")),
		ServerAddr: getEnv("SERVER_ADDR", ":7070"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "database.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		FreeNoteLimit:  getEnvInt("FREE_NOTE_LIMIT", 3),
		LoginRateLimit: getEnvFloat("LOGIN_RATE_LIMIT", 5),
		SeedDemoData:   getEnvBool("SEED_DEMO_DATA", false),

		WSGatewayEndpoint: getEnv("WS_GATEWAY_ENDPOINT", ""),
		WSGatewayRegion:   getEnv("WS_GATEWAY_REGION", "us-east-2"),
		WSCallbackSecret:  getEnv("WS_CALLBACK_SECRET", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.WSGatewayEndpoint != "" && cfg.WSCallbackSecret == "" {
		return nil, fmt.Errorf("WS_CALLBACK_SECRET is required when WS_GATEWAY_ENDPOINT is set")
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies reports whether the session cookie needs the Secure flag.
// Only an explicit development or local environment runs over plain HTTP.
func (c *Config) SecureCookies() bool {
	return c.Env != "development" && c.Env != "local"
}

// HasGateway reports whether websocket notifications can be delivered.
func (c *Config) HasGateway() bool {
	return c.WSGatewayEndpoint != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
