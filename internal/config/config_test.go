package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"medidoc/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "MEDIDOC_DATA_DIR", "GEMINI_API_KEY", "GEMINI_BASE_URL",
		"GEMINI_MODEL", "REQUEST_TIMEOUT_SECONDS", "AUTOSAVE_DELAY_SECONDS", "DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.GeminiBaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.RequestTimeout)
	}
	if cfg.AutosaveDelay != 2*time.Second {
		t.Errorf("AutosaveDelay = %v, want 2s", cfg.AutosaveDelay)
	}
	if !cfg.Debug {
		t.Error("Debug should default to true outside prod")
	}
	if !strings.HasSuffix(cfg.DataDir, ".medidoc") {
		t.Errorf("DataDir = %q, want a .medidoc directory", cfg.DataDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("MEDIDOC_DATA_DIR", "/var/lib/medidoc")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "120")
	t.Setenv("AUTOSAVE_DELAY_SECONDS", "5")
	t.Setenv("DEBUG", "")

	cfg := Load()

	if cfg.DataDir != "/var/lib/medidoc" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.RequestTimeout)
	}
	if cfg.AutosaveDelay != 5*time.Second {
		t.Errorf("AutosaveDelay = %v, want 5s", cfg.AutosaveDelay)
	}
	if cfg.Debug {
		t.Error("Debug should default to false in prod")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	for _, value := range []string{"abc", "-3", "0"} {
		t.Setenv("REQUEST_TIMEOUT_SECONDS", value)
		if cfg := Load(); cfg.RequestTimeout != 60*time.Second {
			t.Errorf("REQUEST_TIMEOUT_SECONDS=%q: RequestTimeout = %v, want the default", value, cfg.RequestTimeout)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "key", DataDir: "/tmp/medidoc"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg = &Config{DataDir: "/tmp/medidoc"}
	if err := cfg.Validate(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("Validate() without API key error = %v, want ErrConfiguration", err)
	}

	cfg = &Config{GeminiAPIKey: "key"}
	if err := cfg.Validate(); !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("Validate() without data dir error = %v, want ErrConfiguration", err)
	}
}

func TestLogDir(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.LogDir(); got != filepath.Join("/data", "logs") {
		t.Errorf("LogDir() = %q", got)
	}
}
