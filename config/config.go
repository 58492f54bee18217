package config

import (
	"os"
	"strings"
)

// Config holds infrastructure configuration loaded from environment
// variables. Run parameters (windows, ratios, fold counts) are command
// flags — the engine packages themselves never read process-wide state.
type Config struct {
	// Storage
	SQLitePath string

	// Optional Redis publishing; empty addr disables it.
	RedisAddr     string
	RedisPassword string

	// Default symbol universe (comma-separated). Empty means every symbol
	// in the store.
	Symbols string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		SQLitePath:    getEnv("SQLITE_PATH", "data/bars.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Symbols:       getEnv("SYMBOLS", ""),
	}
}

// ParseSymbols parses the Symbols string into a cleaned slice.
func (c *Config) ParseSymbols() []string {
	parts := strings.Split(c.Symbols, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		symbols = append(symbols, p)
	}
	return symbols
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
