// Package config loads application settings from YAML and environment
// variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all bungomap settings.
type Config struct {
	DatabasePath string `yaml:"database_path" env:"BUNGOMAP_DB_PATH"    env-default:"./data/bungo_production.db"`
	CachePath    string `yaml:"cache_path"    env:"BUNGOMAP_CACHE_PATH" env-default:"./data/geocoding_cache.json"`

	Geocode GeocodeConfig `yaml:"geocode"`
	Log     LogConfig     `yaml:"log"`
}

// GeocodeConfig holds geocoding provider settings.
type GeocodeConfig struct {
	// Google Maps API key. When empty, only Nominatim is used.
	GoogleAPIKey   string        `yaml:"google_api_key"  env:"GOOGLE_MAPS_API_KEY"`
	NominatimAgent string        `yaml:"nominatim_agent" env:"BUNGOMAP_NOMINATIM_AGENT" env-default:"bungomap/1.0"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"BUNGOMAP_GEOCODE_TIMEOUT" env-default:"10s"`
	Delay          time.Duration `yaml:"delay"           env:"BUNGOMAP_GEOCODE_DELAY"   env-default:"1s"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"BUNGOMAP_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"BUNGOMAP_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is determined by CONFIG_PATH env (fallback "./config.yaml").
// If the file does not exist and CONFIG_PATH was not set explicitly,
// configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail late and obscurely.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.Geocode.RequestTimeout <= 0 {
		return fmt.Errorf("geocode.request_timeout must be positive, got %s", c.Geocode.RequestTimeout)
	}
	if c.Geocode.Delay < 0 {
		return fmt.Errorf("geocode.delay must not be negative, got %s", c.Geocode.Delay)
	}
	return nil
}
