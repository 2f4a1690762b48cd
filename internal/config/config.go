package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"medidoc/internal/domain"
)

type Config struct {
	Environment string
	DataDir     string
	// Gemini configuration
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	// Outbound call timeout. Caps a hung assistant call so it cannot
	// freeze the session.
	RequestTimeout time.Duration
	// Editor auto-save debounce delay
	AutosaveDelay time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Environment:    env,
		DataDir:        getEnv("MEDIDOC_DATA_DIR", defaultDataDir()),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT_SECONDS", 60*time.Second),
		AutosaveDelay:  getDurationEnv("AUTOSAVE_DELAY_SECONDS", 2*time.Second),
		// Debug defaults to true outside production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks the startup invariants. A missing API key is fatal: the
// assistant is not an optional feature of the application.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return &domain.ConfigurationError{Message: "GEMINI_API_KEY environment variable is not set"}
	}
	if c.DataDir == "" {
		return &domain.ConfigurationError{Message: "data directory is not set"}
	}
	return nil
}

// LogDir returns the directory for timestamped log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medidoc"
	}
	return filepath.Join(home, ".medidoc")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}
