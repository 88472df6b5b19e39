// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package config provides layered configuration management using Koanf v2.
//
// Configuration is loaded from three layers, highest priority last:
//
//  1. Built-in defaults (structs provider)
//  2. Config file (config.yaml, yaml parser)
//  3. Environment variables (env provider)
//
// Environment variable names map to config paths by replacing the first
// underscore with a dot: DATA_RAW_PATH -> data.raw_path, SERVER_PORT ->
// server.port. LOG_LEVEL and LOG_FORMAT map to the logging section.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelytics/config.yaml",
	"/etc/reelytics/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the root configuration for both binaries.
type Config struct {
	Data    DataConfig    `koanf:"data"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// DataConfig holds the dataset file locations.
type DataConfig struct {
	// RawPath is the raw movie CSV consumed by the cleaning pipeline.
	RawPath string `koanf:"raw_path"`

	// CleanedPath is the canonical table: written by the cleaning pipeline,
	// read by the analytics engine.
	CleanedPath string `koanf:"cleaned_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins is the allowed CORS origin list. Empty disables
	// cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests/RateLimitWindow bound per-IP request rates.
	// RateLimitRequests <= 0 disables rate limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// APIConfig holds query parameter bounds enforced at the HTTP boundary.
type APIConfig struct {
	// DefaultLimit is used when a ranking endpoint receives no limit.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the limit parameter on ranking endpoints.
	MaxLimit int `koanf:"max_limit"`

	// DefaultMinVotes is used when top-rated receives no min_votes.
	DefaultMinVotes int `koanf:"default_min_votes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RawPath:     "data/raw_movies.csv",
			CleanedPath: "data/cleaned_movies.csv",
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		API: APIConfig{
			DefaultLimit:    10,
			MaxLimit:        50,
			DefaultMinVotes: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional config file and
// environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: config file, if one exists
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path of the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths that hold slices and may arrive as
// comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envAliases maps environment variable names that don't follow the
// first-underscore rule onto their config paths.
var envAliases = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"http_port":  "server.port",
	"http_host":  "server.host",
}

// knownSections limits env loading to this application's config tree so
// unrelated process environment (PATH, HOME, ...) is ignored.
var knownSections = map[string]bool{
	"data":    true,
	"server":  true,
	"api":     true,
	"logging": true,
}

// envTransformFunc transforms environment variable names to koanf config
// paths. The first underscore becomes the section separator:
//
//	DATA_RAW_PATH          -> data.raw_path
//	SERVER_RATE_LIMIT_WINDOW -> server.rate_limit_window
//	LOG_LEVEL              -> logging.level (alias)
//
// Names outside the known sections map to "" and are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if path, ok := envAliases[key]; ok {
		return path
	}

	section, rest, found := strings.Cut(key, "_")
	if !found || !knownSections[section] {
		return ""
	}
	return section + "." + rest
}

// Validate checks the configuration for values the binaries cannot run with.
func (c *Config) Validate() error {
	if c.Data.RawPath == "" {
		return fmt.Errorf("data.raw_path must not be empty")
	}
	if c.Data.CleanedPath == "" {
		return fmt.Errorf("data.cleaned_path must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.API.DefaultLimit < 1 {
		return fmt.Errorf("api.default_limit must be positive, got %d", c.API.DefaultLimit)
	}
	if c.API.MaxLimit < c.API.DefaultLimit {
		return fmt.Errorf("api.max_limit (%d) must be >= api.default_limit (%d)",
			c.API.MaxLimit, c.API.DefaultLimit)
	}
	if c.API.DefaultMinVotes < 0 {
		return fmt.Errorf("api.default_min_votes must not be negative, got %d", c.API.DefaultMinVotes)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
