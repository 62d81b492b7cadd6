package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Storage
	StorageBackend string
	SQLitePath     string
	DatabaseURL    string
	S3             S3Config

	// Auth0, optional. Both domain and audience enable JWT validation.
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string
	RateLimit   RateLimitConfig

	// Budgeting
	BillsRolloverPolicy domain.BillRolloverPolicy
	Refresh             RefreshConfig
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// RefreshConfig holds the periodic recompute intervals
type RefreshConfig struct {
	BillsInterval        time.Duration
	NotificationInterval time.Duration
}

// AuthEnabled reports whether JWT validation is configured
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	policy, err := domain.ParseBillRolloverPolicy(getEnv("BILLS_ROLLOVER_POLICY", string(domain.BillRolloverMonthly)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageSQLite)),
		SQLitePath:     getEnv("SQLITE_PATH", "data/ebudgetmo.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "ebudgetmo-data"),
			Prefix:          getEnv("S3_PREFIX", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		Auth0Domain:         getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:       getEnv("AUTH0_AUDIENCE", ""),
		Port:                getEnv("PORT", "8080"),
		CORSOrigins:         strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                 getEnv("ENV", "development"),
		BillsRolloverPolicy: policy,
	}

	if cfg.RateLimit.RequestsPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.Refresh.BillsInterval, err = getEnvDuration("BILLS_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Refresh.NotificationInterval, err = getEnvDuration("NOTIFICATION_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}

	switch c.StorageBackend {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if (c.Auth0Domain == "") != (c.Auth0Audience == "") {
		return fmt.Errorf("AUTH0_DOMAIN and AUTH0_AUDIENCE must be set together")
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit and burst must be greater than zero")
	}
	if c.Refresh.BillsInterval <= 0 || c.Refresh.NotificationInterval <= 0 {
		return fmt.Errorf("refresh intervals must be greater than zero")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be a number", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", key, value, err)
	}
	return d, nil
}
