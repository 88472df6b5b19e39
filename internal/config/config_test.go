// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.RawPath != "data/raw_movies.csv" {
		t.Errorf("Data.RawPath = %q", cfg.Data.RawPath)
	}
	if cfg.Data.CleanedPath != "data/cleaned_movies.csv" {
		t.Errorf("Data.CleanedPath = %q", cfg.Data.CleanedPath)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.DefaultLimit != 10 || cfg.API.MaxLimit != 50 || cfg.API.DefaultMinVotes != 500 {
		t.Errorf("API config = %+v", cfg.API)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging config = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_RAW_PATH", "/tmp/other_raw.csv")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_MAX_LIMIT", "100")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.RawPath != "/tmp/other_raw.csv" {
		t.Errorf("Data.RawPath = %q, env override not applied", cfg.Data.RawPath)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.API.MaxLimit != 100 {
		t.Errorf("API.MaxLimit = %d, want 100", cfg.API.MaxLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug (LOG_LEVEL alias)", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
api:
  default_limit: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 from file", cfg.Server.Port)
	}
	if cfg.API.DefaultLimit != 5 {
		t.Errorf("API.DefaultLimit = %d, want 5 from file", cfg.API.DefaultLimit)
	}
	// Untouched values keep their defaults.
	if cfg.API.MaxLimit != 50 {
		t.Errorf("API.MaxLimit = %d, want default 50", cfg.API.MaxLimit)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "7777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want env value 7777 over file value", cfg.Server.Port)
	}
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoad_InvalidEnvValueFailsValidation(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "DATA_RAW_PATH", want: "data.raw_path"},
		{env: "SERVER_RATE_LIMIT_WINDOW", want: "server.rate_limit_window"},
		{env: "API_DEFAULT_MIN_VOTES", want: "api.default_min_votes"},
		{env: "LOG_LEVEL", want: "logging.level"},
		{env: "HTTP_PORT", want: "server.port"},
		{env: "PATH", want: ""},
		{env: "HOME", want: ""},
		{env: "UNRELATED_THING", want: ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{name: "empty raw path", mutate: func(c *Config) { c.Data.RawPath = "" }, wantErr: true},
		{name: "empty cleaned path", mutate: func(c *Config) { c.Data.CleanedPath = "" }, wantErr: true},
		{name: "port too low", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero default limit", mutate: func(c *Config) { c.API.DefaultLimit = 0 }, wantErr: true},
		{name: "max below default", mutate: func(c *Config) { c.API.MaxLimit = 5 }, wantErr: true},
		{name: "negative min votes", mutate: func(c *Config) { c.API.DefaultMinVotes = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestDefaultTimeouts(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
}
