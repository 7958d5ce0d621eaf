// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration, populated from DESKTOPD_*
// environment variables.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Desktop DesktopConfig
	Seed    SeedConfig
}

// ServerConfig controls the HTTP listener and the request policies in
// front of it. AllowedOrigins pins the UI shell origin; the default "*"
// suits development, deployments set the real shell origin.
type ServerConfig struct {
	Host           string   `envconfig:"HOST" default:"0.0.0.0"`
	Port           int      `envconfig:"PORT" default:"8090"`
	ReadTimeout    int      `envconfig:"READ_TIMEOUT" default:"30"`
	WriteTimeout   int      `envconfig:"WRITE_TIMEOUT" default:"30"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimit      int      `envconfig:"RATE_LIMIT" default:"120"`
	RateBurst      int      `envconfig:"RATE_BURST" default:"240"`
}

// Address returns the host:port listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Permission policies deciding kernel access requests that no recorded
// grant answers yet.
const (
	PolicyAllow = "allow"
	PolicyDeny  = "deny"
)

// DesktopConfig sets the virtual screen the window manager centers
// against and the default answer for unasked permission requests.
type DesktopConfig struct {
	ScreenWidth      int    `envconfig:"SCREEN_WIDTH" default:"1920"`
	ScreenHeight     int    `envconfig:"SCREEN_HEIGHT" default:"1080"`
	PermissionPolicy string `envconfig:"PERMISSION_POLICY" default:"allow"`
}

// SeedConfig points at optional TOML seed files loaded at startup.
type SeedConfig struct {
	RegistryFile string `envconfig:"SEED_REGISTRY" default:""`
	ThemesFile   string `envconfig:"SEED_THEMES" default:""`
}

// Load reads configuration from DESKTOPD_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("desktopd", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}
	if cfg.Desktop.ScreenWidth <= 0 || cfg.Desktop.ScreenHeight <= 0 {
		return nil, fmt.Errorf("invalid screen %dx%d", cfg.Desktop.ScreenWidth, cfg.Desktop.ScreenHeight)
	}
	if cfg.Desktop.PermissionPolicy != PolicyAllow && cfg.Desktop.PermissionPolicy != PolicyDeny {
		return nil, fmt.Errorf("invalid permission policy %q", cfg.Desktop.PermissionPolicy)
	}
	if cfg.Server.RateLimit < 1 || cfg.Server.RateBurst < 1 {
		return nil, fmt.Errorf("invalid rate limit %d/%d", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	return &cfg, nil
}

// Default returns the configuration used when the environment is empty.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0", Port: 8090, ReadTimeout: 30, WriteTimeout: 30,
			AllowedOrigins: []string{"*"}, RateLimit: 120, RateBurst: 240,
		},
		Logging: LoggingConfig{Level: "info"},
		Desktop: DesktopConfig{ScreenWidth: 1920, ScreenHeight: 1080, PermissionPolicy: PolicyAllow},
	}
}
