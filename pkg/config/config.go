package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCandidatePool bounds how many active resources are scored per request
const DefaultCandidatePool = 200

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	AIML        AIMLConfig
	Catalog     CatalogConfig
	Auth        AuthConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// RateLimitRPM is the per-client request budget; zero or less disables limiting.
	RateLimitRPM   int
	RateLimitBurst int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AIMLConfig holds configuration for the chat-completions gateway
type AIMLConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	RateLimitRPM   int
	RateLimitBurst int
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures int
	BreakerCooldown time.Duration
}

// CatalogConfig tunes catalog selection
type CatalogConfig struct {
	CandidatePool int
}

// AuthConfig holds contributor session and admin settings
type AuthConfig struct {
	SessionTTL time.Duration
	AdminToken string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPM:   getEnvAsInt("RATE_LIMIT_RPM", 120),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "learnplan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		AIML: AIMLConfig{
			APIKey:          getEnv("AIML_API_KEY", ""),
			BaseURL:         getEnv("AIML_BASE_URL", "https://api.aimlapi.com/v1"),
			Model:           getEnv("AIML_MODEL", "perplexity/sonar-pro"),
			TimeoutSeconds:  getEnvAsInt("AIML_TIMEOUT_SECONDS", 30),
			RateLimitRPM:    getEnvAsInt("AIML_RATE_LIMIT_RPM", 60),
			RateLimitBurst:  getEnvAsInt("AIML_RATE_LIMIT_BURST", 5),
			BreakerFailures: getEnvAsInt("AIML_BREAKER_FAILURES", 5),
			BreakerCooldown: time.Duration(getEnvAsInt("AIML_BREAKER_COOLDOWN_SECONDS", 60)) * time.Second,
		},
		Catalog: CatalogConfig{
			CandidatePool: getEnvAsInt("CATALOG_CANDIDATE_POOL", DefaultCandidatePool),
		},
		Auth: AuthConfig{
			SessionTTL: time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			AdminToken: getEnv("ADMIN_TOKEN", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "learnplan"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.AIML.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("AIML_TIMEOUT_SECONDS must be positive, got %d", cfg.AIML.TimeoutSeconds)
	}
	if cfg.Catalog.CandidatePool <= 0 {
		return nil, fmt.Errorf("CATALOG_CANDIDATE_POOL must be positive, got %d", cfg.Catalog.CandidatePool)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the per-request deadline for gateway calls
func (c *AIMLConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
