// Package config provides configuration for the chat relay.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the chat relay configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Storage
	DatabaseURL      string
	HistoryNamespace string

	// LLM provider
	LLMProvider   string
	LLMModel      string
	LLMTimeout    time.Duration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LiteLLMURL    string
	LiteLLMAPIKey string

	// Sessions
	SessionTTL          time.Duration
	SecureCookie        bool
	PersistOnDisconnect bool
	JanitorInterval     time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", "file:chatrelay.db?cache=shared&mode=rwc"),
		HistoryNamespace:    getEnv("HISTORY_NAMESPACE", "chat_history"),
		LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
		LLMModel:            getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		LiteLLMURL:          getEnv("LITELLM_URL", "http://localhost:4000"),
		LiteLLMAPIKey:       getEnv("LITELLM_API_KEY", ""),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MS", 86400000)) * time.Millisecond,
		SecureCookie:        getEnvBool("SECURE_COOKIE", true),
		PersistOnDisconnect: getEnvBool("PERSIST_ON_DISCONNECT", true),
		JanitorInterval:     time.Duration(getEnvInt("JANITOR_INTERVAL_MS", 600000)) * time.Millisecond,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
