package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	DatabaseType     string
	DatabaseURL      string
	DatabasePath     string
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBAcquireTimeout time.Duration

	JWTSecret  string
	JWTExpiry  time.Duration
	AppBaseURL string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	KeepaliveInterval time.Duration

	Debug bool
}

// Load reads configuration from the environment (and a .env file when
// present) with sensible defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),

		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:      getEnv("DB_URL", ""),
		DatabasePath:     getEnv("DB_PATH", "./yoga_booking.db"),
		DBMaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBAcquireTimeout: getEnvDuration("DB_ACQUIRE_TIMEOUT", 5*time.Second),

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiry:  getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Yoga Studio"),

		// 0 disables the keepalive; hosted databases that auto-pause
		// after an hour want something like 50m here.
		KeepaliveInterval: getEnvDuration("DB_KEEPALIVE_INTERVAL", 0),

		Debug: getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
