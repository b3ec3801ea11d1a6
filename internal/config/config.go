package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// GatewayMode selects how online payments reach the external provider.
type GatewayMode string

const (
	// GatewayModeDemo settles gateway payments synchronously without
	// contacting a provider. For non-production testing only.
	GatewayModeDemo GatewayMode = "demo"
	// GatewayModeLive opens a real provider session and waits for the
	// asynchronous callback.
	GatewayModeLive GatewayMode = "live"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	StoragePath string

	// AMQPURL is optional; when empty, notifications are disabled.
	AMQPURL string

	// Payment gateway settings. Threaded explicitly into the payment
	// module rather than read ad hoc from the environment.
	GatewayMode    GatewayMode
	GatewayBaseURL string
	GatewayStoreID string
	GatewaySecret  string
	GatewayTimeout time.Duration
	PublicBaseURL  string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Base path for uploaded room photos (default: ./data)
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data")

	// RabbitMQ URL for notification dispatch (optional)
	cfg.AMQPURL = getEnv("AMQP_URL", "")

	// Payment gateway configuration.
	mode := GatewayMode(getEnv("GATEWAY_MODE", string(GatewayModeDemo)))
	if mode != GatewayModeDemo && mode != GatewayModeLive {
		return nil, fmt.Errorf("invalid GATEWAY_MODE %q", mode)
	}
	cfg.GatewayMode = mode

	cfg.GatewayBaseURL = getEnv("GATEWAY_BASE_URL", "")
	cfg.GatewayStoreID = getEnv("GATEWAY_STORE_ID", "")
	cfg.GatewaySecret = getEnv("GATEWAY_SECRET", "")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:8080")

	if mode == GatewayModeLive {
		if cfg.GatewayBaseURL == "" || cfg.GatewayStoreID == "" || cfg.GatewaySecret == "" {
			return nil, fmt.Errorf("GATEWAY_BASE_URL, GATEWAY_STORE_ID and GATEWAY_SECRET are required in live mode")
		}
	}

	timeoutStr := getEnv("GATEWAY_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}
	cfg.GatewayTimeout = timeout

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
