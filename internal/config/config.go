package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures all runtime configuration for the service.
type Config struct {
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Mail      MailConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	AI        AIConfig
	Server    ServerConfig
}

// HTTPConfig holds HTTP server related configuration.
type HTTPConfig struct {
	Port string
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the formatted connection string for pgx.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MailConfig holds SMTP settings for outbound email.
type MailConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	FromName      string
	SSL           bool
	SkipVerifyTLS bool
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	SecretKey   string
	TokenExpiry time.Duration
}

// SchedulerConfig holds delivery scheduler settings. The poll interval is a
// fixed property of the scheduler package, not configuration.
type SchedulerConfig struct {
	Enabled                bool
	SendNotificationEmails bool
	Timezone               *time.Location
}

// AIConfig holds the text-generation service settings.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ServerConfig stores general server runtime configuration.
type ServerConfig struct {
	ShutdownTimeout time.Duration
}

// Load builds configuration by reading environment variables with sane defaults.
func Load() (*Config, error) {
	pgPort, err := getInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mailPort, err := getInt("MAIL_PORT", 465)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}

	schedulerEnabled, err := getBool("SCHEDULER_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	sendNotifications, err := getBool("SEND_NOTIFICATION_EMAILS", false)
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_NOTIFICATION_EMAILS: %w", err)
	}

	mailSSL, err := getBool("MAIL_SSL", true)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_SSL: %w", err)
	}

	skipVerify, err := getBool("MAIL_SKIP_VERIFY_TLS", false)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_SKIP_VERIFY_TLS: %w", err)
	}

	// All stored delivery dates are naive timestamps in this one reference
	// timezone; "now" is converted into it before every comparison.
	tzName := getString("DELIVERY_TIMEZONE", "UTC")
	timezone, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_TIMEZONE: %w", err)
	}

	tokenExpiryStr := getString("AUTH_TOKEN_EXPIRY", "24h")
	tokenExpiry, err := time.ParseDuration(tokenExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_EXPIRY: %w", err)
	}

	shutdownTimeoutStr := getString("SERVER_SHUTDOWN_TIMEOUT", "10s")
	shutdownTimeout, err := time.ParseDuration(shutdownTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port: getString("HTTP_PORT", "8000"),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "postgres"),
			Port:     pgPort,
			User:     getString("POSTGRES_USER", "afterlife"),
			Password: getString("POSTGRES_PASSWORD", "afterlife"),
			DBName:   getString("POSTGRES_DB", "afterlife"),
			SSLMode:  getString("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString("REDIS_ADDR", "redis:6379"),
			Password: getString("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Mail: MailConfig{
			Host:          getString("MAIL_SERVER", ""),
			Port:          mailPort,
			Username:      getString("MAIL_USERNAME", ""),
			Password:      getString("MAIL_PASSWORD", ""),
			From:          getString("MAIL_FROM", ""),
			FromName:      getString("MAIL_FROM_NAME", "AfterLife Message Platform"),
			SSL:           mailSSL,
			SkipVerifyTLS: skipVerify,
		},
		Auth: AuthConfig{
			SecretKey:   getString("SECRET_KEY", ""),
			TokenExpiry: tokenExpiry,
		},
		Scheduler: SchedulerConfig{
			Enabled:                schedulerEnabled,
			SendNotificationEmails: sendNotifications,
			Timezone:               timezone,
		},
		AI: AIConfig{
			APIKey:  getString("OPENAI_API_KEY", ""),
			BaseURL: getString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getString("OPENAI_MODEL", "gpt-4"),
		},
		Server: ServerConfig{
			ShutdownTimeout: shutdownTimeout,
		},
	}

	return cfg, nil
}

func getString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	}
	return def, nil
}

func getBool(key string, def bool) (bool, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return false, err
		}
		return parsed, nil
	}
	return def, nil
}
