// Package config reads server settings from the environment.
//
// main loads a .env file (godotenv) before calling Load, so every key below can
// live there in development.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the server and CLI.
type Config struct {
	Port         string // PORT
	LogLevel     string // LOG_LEVEL: trace|debug|info|warn|error
	LogFormat    string // LOG_FORMAT: json (default) | console
	DBPath       string // DB_PATH
	JWTSecret    string // JWT_SECRET
	JWTTTL       time.Duration
	CookieName   string // COOKIE_NAME
	ClientOrigin string // CLIENT_ORIGIN, for credentialed CORS
	Production   bool   // NODE_ENV=production: secure cookies
	DailySalt    string // DAILY_SALT
	GridSize     int    // GRID_SIZE
	MaxAttempts  int    // MAX_ATTEMPTS, per-word placement attempts
	WordsFile    string // WORDS_FILE, optional default word list
}

// Load reads the environment, applying defaults for unset keys.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:       time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "wordsearch_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		GridSize:     envInt("GRID_SIZE", 12),
		MaxAttempts:  envInt("MAX_ATTEMPTS", 100),
		WordsFile:    os.Getenv("WORDS_FILE"),
	}
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def when unset or malformed.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
