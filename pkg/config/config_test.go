package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for explicit missing config path, got nil")
	}
}

func TestLoadEnvOnly(t *testing.T) {
	// Run from a directory without a config.yaml.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("BUNGOMAP_GEOCODE_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabasePath == "" {
		t.Error("Expected default database path, got empty")
	}
	if cfg.Geocode.GoogleAPIKey != "test-key" {
		t.Errorf("Expected API key from env, got %q", cfg.Geocode.GoogleAPIKey)
	}
	if cfg.Geocode.Delay != 250*time.Millisecond {
		t.Errorf("Expected 250ms delay, got %s", cfg.Geocode.Delay)
	}
	if cfg.Geocode.RequestTimeout != 10*time.Second {
		t.Errorf("Expected default 10s timeout, got %s", cfg.Geocode.RequestTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.Log.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
database_path: /tmp/test.db
cache_path: /tmp/cache.json
geocode:
  nominatim_agent: test-agent/2.0
  request_timeout: 5s
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("Expected database path from YAML, got %q", cfg.DatabasePath)
	}
	if cfg.Geocode.NominatimAgent != "test-agent/2.0" {
		t.Errorf("Expected nominatim agent from YAML, got %q", cfg.Geocode.NominatimAgent)
	}
	if cfg.Geocode.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.Geocode.RequestTimeout)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected json log format, got %q", cfg.Log.Format)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabasePath: "x.db",
		Geocode:      GeocodeConfig{RequestTimeout: 10 * time.Second},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}

	cfg.Geocode.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero timeout, got nil")
	}

	cfg.Geocode.RequestTimeout = time.Second
	cfg.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty database path, got nil")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger := NewLogger(LogConfig{Level: "debug", Format: "text"})
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug level enabled")
	}

	logger = NewLogger(LogConfig{Level: "error", Format: "json"})
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info level disabled at error level")
	}
}
