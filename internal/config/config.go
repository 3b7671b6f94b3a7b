// Package config handles configuration loading for the sitedesk service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/sitedesk/internal/storage"
)

// Config is the top-level configuration structure for sitedesk.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database storage.Config `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Name         string        `yaml:"name"`          // project name shown in the page header
	Addr         string        `yaml:"addr"`          // default ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default 15s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default 30s
}

// ExportConfig controls file downloads.
type ExportConfig struct {
	Gzip bool `yaml:"gzip"` // gzip CSV responses for clients that accept it
}

// Load reads and validates the YAML config at path, applying defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Defaults
	cfg.Server.Name = "Construction Dashboard"
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "sitedesk.db"
	cfg.Export.Gzip = true

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	// DSN: config file takes precedence; env var is the fallback so the
	// credentials can stay out of the checked-in YAML.
	if cfg.Database.DSN == "" {
		if s := os.Getenv("SITEDESK_DB_DSN"); s != "" {
			cfg.Database.DSN = s
		} else {
			return nil, fmt.Errorf("config: database.dsn is required (or set SITEDESK_DB_DSN)")
		}
	}
	if cfg.Database.Driver == "" {
		return nil, fmt.Errorf("config: database.driver is required")
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no config file
// exists, e.g. in --dev mode.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "Construction Dashboard",
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: storage.Config{
			Driver: "sqlite",
			DSN:    "sitedesk.db",
		},
		Export: ExportConfig{Gzip: true},
	}
}
