package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Redis     RedisConfig
	Currency  CurrencyConfig
	Cron      CronConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration. Tokens are issued elsewhere; the secret
// is shared so this service can verify them.
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	Version            string
	LogLevel           string
	CORSAllowedOrigins []string
}

type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           string
	Password       string
	DB             int
	SalaryCacheTTL time.Duration
}

type CurrencyConfig struct {
	// USDToPKRRate seeds the converter when no settings row exists
	USDToPKRRate decimal.Decimal
}

type CronConfig struct {
	AutoGenerateEnabled  bool
	AutoGenerateInterval time.Duration
	RateSyncInterval     time.Duration
}

type RateLimitConfig struct {
	// Batch is a formatted rate such as "10-M" applied to generate/recalculate
	Batch string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		Version:            getEnv("APP_VERSION", "v1.0.0"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Redis configuration
	redisEnabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("SALARY_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SALARY_CACHE_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Enabled:        redisEnabled,
		Host:           getEnv("REDIS_HOST", "localhost"),
		Port:           getEnv("REDIS_PORT", "6379"),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		SalaryCacheTTL: cacheTTL,
	}

	// Currency configuration
	rate, err := decimal.NewFromString(getEnv("USD_TO_PKR_RATE", "278.50"))
	if err != nil {
		return nil, fmt.Errorf("invalid USD_TO_PKR_RATE: %w", err)
	}
	config.Currency = CurrencyConfig{USDToPKRRate: rate}

	// Cron configuration
	autoGenerate, err := strconv.ParseBool(getEnv("CRON_AUTO_GENERATE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_AUTO_GENERATE_ENABLED: %w", err)
	}
	autoGenerateInterval, err := time.ParseDuration(getEnv("CRON_AUTO_GENERATE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_AUTO_GENERATE_INTERVAL: %w", err)
	}
	rateSyncInterval, err := time.ParseDuration(getEnv("CRON_RATE_SYNC_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_RATE_SYNC_INTERVAL: %w", err)
	}

	config.Cron = CronConfig{
		AutoGenerateEnabled:  autoGenerate,
		AutoGenerateInterval: autoGenerateInterval,
		RateSyncInterval:     rateSyncInterval,
	}

	config.RateLimit = RateLimitConfig{
		Batch: getEnv("BATCH_RATE_LIMIT", "10-M"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !c.Currency.USDToPKRRate.IsPositive() {
		return fmt.Errorf("USD_TO_PKR_RATE must be greater than zero")
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit.Batch); err != nil {
		return fmt.Errorf("invalid BATCH_RATE_LIMIT: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
