package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Chat     ChatConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Secure      bool   // Use HTTPS-only cookies
	Environment string // "development", "production", "test"
}

// StoreConfig selects the document store backend. The file backend keeps
// JSON documents under DataDir; the postgres backend needs Database settings.
type StoreConfig struct {
	Backend string // "file" or "postgres"
	DataDir string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig selects where sessions live. The memory backend is for
// development; sessions vanish on restart.
type SessionConfig struct {
	Backend string // "redis" or "memory"
}

type ChatConfig struct {
	MinPasswordLength int
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Secure:      getEnvBool("SERVER_SECURE", false),
			Environment: getEnv("APP_ENV", "development"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "file"),
			DataDir: getEnv("STORE_DATA_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "chatwire"),
			Password: getEnv("DB_PASSWORD", "chatwire"),
			DBName:   getEnv("DB_NAME", "chatwire"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
		},
		Chat: ChatConfig{
			MinPasswordLength: getEnvInt("CHAT_MIN_PASSWORD_LENGTH", 8),
		},
	}

	if cfg.Store.Backend != "file" && cfg.Store.Backend != "postgres" {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: must be file or postgres", cfg.Store.Backend)
	}
	if cfg.Session.Backend != "redis" && cfg.Session.Backend != "memory" {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q: must be redis or memory", cfg.Session.Backend)
	}
	if cfg.Chat.MinPasswordLength < 1 {
		return nil, fmt.Errorf("invalid CHAT_MIN_PASSWORD_LENGTH %d", cfg.Chat.MinPasswordLength)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
