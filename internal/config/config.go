// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the runtime settings of the fooddesk binary.
type Config struct {
	DBPath   string
	LogLevel string
	// ClientID is the profile the console session acts as. Authentication
	// is out of scope; the id comes from the deployment environment.
	ClientID int64
}

// Load reads configuration from the environment with sane defaults.
func Load() Config {
	return Config{
		DBPath:   getEnv("FOODDESK_DB_PATH", "fooddesk.db"),
		LogLevel: getEnv("FOODDESK_LOG_LEVEL", "info"),
		ClientID: getEnvInt64("FOODDESK_CLIENT_ID", 1),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
