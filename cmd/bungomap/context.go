package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/m37335/bungo-project/pkg/config"
	"github.com/m37335/bungo-project/pkg/db"
	"github.com/m37335/bungo-project/pkg/geocode"
)

// commandContext lazily shares configuration, the logger, and the database
// handle across subcommands.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error

	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.configFlag != nil && *c.configFlag != "" {
			os.Setenv("CONFIG_PATH", *c.configFlag)
		}
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = config.NewLogger(cfg.Log)
	})
	return c.config, c.configErr
}

// openDB opens the configured SQLite database and runs migrations. SQLite
// handles one writer at a time, so the pool is capped at one connection.
func (c *commandContext) openDB() (*sql.DB, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.dbOnce.Do(func() {
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				c.dbErr = fmt.Errorf("create database directory: %w", err)
				return
			}
		}
		conn, err := sql.Open("sqlite3", cfg.DatabasePath)
		if err != nil {
			c.dbErr = fmt.Errorf("open database: %w", err)
			return
		}
		conn.SetMaxOpenConns(1)
		if err := db.InitDB(conn); err != nil {
			conn.Close()
			c.dbErr = fmt.Errorf("migrate database: %w", err)
			return
		}
		c.dbConn = conn
	})
	return c.dbConn, c.dbErr
}

// newResolver builds the geocoding chain from configuration: Google first
// when an API key is present, Nominatim always as fallback.
func (c *commandContext) newResolver() (*geocode.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(cfg.CachePath); cfg.CachePath != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	cache, err := geocode.OpenCache(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open geocode cache: %w", err)
	}

	var providers []geocode.Provider
	if cfg.Geocode.GoogleAPIKey != "" {
		providers = append(providers, geocode.NewGoogleProvider(cfg.Geocode.GoogleAPIKey, cfg.Geocode.RequestTimeout))
	}
	providers = append(providers, geocode.NewNominatimProvider(cfg.Geocode.NominatimAgent, cfg.Geocode.RequestTimeout))

	res := geocode.NewResolver(cache, providers...)
	res.Logger = c.loggerValue()
	return res, nil
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
