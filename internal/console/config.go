// Package console wires the configuration, token store and SDK session
// behind the CLI commands.
package console

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL    string        // Backend base URL (default: http://localhost:5000/api)
	Timeout       time.Duration // Per-request timeout, also used by the refresh call (default: 120s)
	SessionFile   string        // Path to the SQLite session database
	MasterKeyPath string        // Optional: path to the master key file for token encryption
	LogLevel      string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat     string        // Log format (text, json) (default: text)
}

// LoadConfig reads the console configuration from the environment once at
// startup.
func LoadConfig() Config {
	return Config{
		APIBaseURL:    getEnvOrDefault("ARRIMAGE_API_URL", "http://localhost:5000/api"),
		Timeout:       getEnvSecondsOrDefault("ARRIMAGE_TIMEOUT", 120*time.Second),
		SessionFile:   getEnvOrDefault("ARRIMAGE_SESSION_FILE", defaultSessionFile()),
		MasterKeyPath: os.Getenv("ARRIMAGE_MASTER_KEY_PATH"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// defaultSessionFile places the session database under the user's config
// directory, falling back to the working directory when none is resolvable.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "arrimage-session.db"
	}
	return filepath.Join(dir, "arrimage", "session.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
