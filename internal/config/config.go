package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
	Market    MarketConfig
	Calendar  CalendarConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path        string
	AutoMigrate bool
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects the zap preset and minimum level.
type LogConfig struct {
	Env   string
	Level string
}

// SchedulerConfig controls the daily settlement sweep.
// Hour and Minute are wall-clock values in the market timezone.
type SchedulerConfig struct {
	Enabled bool
	Hour    int
	Minute  int
}

// RedisConfig holds the estimate cache settings. An empty URL disables caching.
type RedisConfig struct {
	URL         string
	EstimateTTL time.Duration
}

// MarketConfig describes the market data provider.
// The *Path fields are jsonpath expressions evaluated against the provider's payloads.
type MarketConfig struct {
	BaseURL         string
	NavPath         string
	EstimatePath    string
	EstimateNavPath string
	RequestsPerSec  float64
	Timeout         time.Duration
	APIToken        string
}

// CalendarConfig points at an optional YAML trading calendar.
// When File is empty the calendar is read from the trade_date table.
type CalendarConfig struct {
	File        string
	LoadTimeout time.Duration
	// RetryAfter is how long a failed load answers by weekday before lookups try again.
	RetryAfter time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path:        getEnv("DB_PATH", "./data/fund_holdings.db"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Env:   getEnv("LOG_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			Enabled: getEnvBool("SCHEDULER_ENABLED", true),
			Hour:    getEnvInt("SCHEDULER_CONFIRM_HOUR", 9),
			Minute:  getEnvInt("SCHEDULER_CONFIRM_MINUTE", 0),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			EstimateTTL: getEnvDuration("ESTIMATE_CACHE_TTL", time.Minute),
		},
		Market: MarketConfig{
			BaseURL:         getEnv("MARKET_BASE_URL", "http://localhost:8081"),
			NavPath:         getEnv("MARKET_NAV_PATH", "$.data.nav"),
			EstimatePath:    getEnv("MARKET_ESTIMATE_PATH", "$.data.estimatedNav"),
			EstimateNavPath: getEnv("MARKET_ESTIMATE_NAV_PATH", "$.data.nav"),
			RequestsPerSec:  getEnvFloat("MARKET_RATE_LIMIT", 5),
			Timeout:         getEnvDuration("MARKET_TIMEOUT", 10*time.Second),
		},
		Calendar: CalendarConfig{
			File:        getEnv("CALENDAR_FILE", ""),
			LoadTimeout: getEnvDuration("CALENDAR_LOAD_TIMEOUT", 10*time.Second),
			RetryAfter:  getEnvDuration("CALENDAR_RETRY_AFTER", 30*time.Second),
		},
	}

	if config.Scheduler.Hour < 0 || config.Scheduler.Hour > 23 {
		return nil, fmt.Errorf("SCHEDULER_CONFIRM_HOUR out of range: %d", config.Scheduler.Hour)
	}
	if config.Scheduler.Minute < 0 || config.Scheduler.Minute > 59 {
		return nil, fmt.Errorf("SCHEDULER_CONFIRM_MINUTE out of range: %d", config.Scheduler.Minute)
	}

	token, err := decryptSecret(getEnv("MARKET_API_TOKEN", ""), getEnv("SECRET_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode MARKET_API_TOKEN: %w", err)
	}
	config.Market.APIToken = token

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// decryptSecret returns value unchanged when no key is configured. With a key, value must
// be a fernet token produced by EncryptSecret with the same key.
func decryptSecret(value, key string) (string, error) {
	if value == "" || key == "" {
		return value, nil
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid SECRET_KEY: %w", err)
	}
	plain := fernet.VerifyAndDecrypt([]byte(value), 0, []*fernet.Key{k})
	if plain == nil {
		return "", fmt.Errorf("token could not be verified with SECRET_KEY")
	}
	return string(plain), nil
}

// EncryptSecret produces the fernet token to store in MARKET_API_TOKEN.
func EncryptSecret(value, key string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid key: %w", err)
	}
	tok, err := fernet.EncryptAndSign([]byte(value), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	return string(tok), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
