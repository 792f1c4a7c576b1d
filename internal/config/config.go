package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Relay configuration
	GeminiAPIKey    string
	Model           string
	DefaultLanguage string
	// HistoryWindow caps how many trailing history turns are resent as
	// model context on each call. 0 resends the full history.
	HistoryWindow int
	// LogDir, when set, mirrors logs to timestamped files under this
	// directory in addition to stdout.
	LogDir string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Relay configuration
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		Model:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "ar"),
		HistoryWindow:   getEnvInt("HISTORY_WINDOW", 0),
		LogDir:          getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// MaskedAPIKey returns a log-safe form of the provider credential.
// The full key must never reach the logs.
func (c *Config) MaskedAPIKey() string {
	key := c.GeminiAPIKey
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
