package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	EventStore     EventStoreConfig
	Auth           AuthConfig
	Log            LogConfig
	LegacyRegistry LegacyRegistryConfig
	Notify         NotifyConfig
	Cleanup        CleanupConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedisConfig holds configuration for the analytics cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTLSeconds controls how long cached rollups stay warm
	TTLSeconds int
	Enabled    bool
}

// EventStoreConfig holds configuration for EventStoreDB.
type EventStoreConfig struct {
	// Host is the EventStoreDB server hostname
	Host string
	// Port is the gRPC/HTTP port (default 2113)
	Port int
	// Insecure disables TLS (for development)
	Insecure bool
	// Username for authentication (optional)
	Username string
	// Password for authentication (optional)
	Password string
	Enabled  bool
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type LogConfig struct {
	Level  string
	Format string
}

// LegacyRegistryConfig points at the municipal social-welfare registry
// (SQL Server) used to import pre-aggregated population records.
type LegacyRegistryConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Enabled  bool
}

func (l LegacyRegistryConfig) DSN() string {
	return fmt.Sprintf(
		"server=%s;port=%d;user id=%s;password=%s;database=%s",
		l.Host, l.Port, l.User, l.Password, l.Database,
	)
}

// NotifyConfig configures the outbound webhook notifier.
type NotifyConfig struct {
	WebhookURL string
	Token      string
	TimeoutSec int
	RetryCount int
	Enabled    bool
}

// CleanupConfig configures the archived-incident retention job.
type CleanupConfig struct {
	// Schedule is a cron expression, default daily at 02:00
	Schedule string
	// RetentionDays is how long archived incidents are kept before purge
	RetentionDays int
	Enabled       bool
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "respond"),
			Password: getEnv("DB_PASSWORD", "respond"),
			Database: getEnv("DB_NAME", "respond"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			TTLSeconds: getEnvInt("REDIS_TTL_SECONDS", 300),
			Enabled:    getEnvBool("REDIS_ENABLED", false),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
			Enabled:  getEnvBool("EVENTSTORE_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			Issuer:    getEnv("JWT_ISSUER", "mdrrmo-respond"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		LegacyRegistry: LegacyRegistryConfig{
			Host:     getEnv("DSWD_DB_HOST", "localhost"),
			Port:     getEnvInt("DSWD_DB_PORT", 1433),
			User:     getEnv("DSWD_DB_USER", "sa"),
			Password: getEnv("DSWD_DB_PASSWORD", ""),
			Database: getEnv("DSWD_DB_NAME", "SocialWelfare"),
			Enabled:  getEnvBool("DSWD_ENABLED", false),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Token:      getEnv("NOTIFY_TOKEN", ""),
			TimeoutSec: getEnvInt("NOTIFY_TIMEOUT_SECONDS", 10),
			RetryCount: getEnvInt("NOTIFY_RETRY_COUNT", 2),
			Enabled:    getEnvBool("NOTIFY_ENABLED", false),
		},
		Cleanup: CleanupConfig{
			Schedule:      getEnv("CLEANUP_SCHEDULE", "0 2 * * *"),
			RetentionDays: getEnvInt("CLEANUP_RETENTION_DAYS", 365),
			Enabled:       getEnvBool("CLEANUP_ENABLED", false),
		},
	}, nil
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
