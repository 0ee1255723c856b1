// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ProfileConfig locates the profile documents. The CLI and the service share it.
type ProfileConfig struct {
	ConfigDir string `env:"VGMPROFILE_CONFIG_DIR" envDefault:"."`
}

// LoadProfileConfig reads ProfileConfig from the environment.
func LoadProfileConfig() (ProfileConfig, error) {
	var cfg ProfileConfig
	if err := ParseEnv(&cfg); err != nil {
		return ProfileConfig{}, err
	}
	return cfg, nil
}

// ServeConfig holds the settings of the profile service.
type ServeConfig struct {
	ProfileConfig
	GRPCAddr      string        `env:"VGMPROFILE_GRPC_ADDR" envDefault:":50051"`
	HTTPAddr      string        `env:"VGMPROFILE_HTTP_ADDR" envDefault:":8080"`
	WatchInterval time.Duration `env:"VGMPROFILE_WATCH_INTERVAL" envDefault:"2s"`
	LogLevel      string        `env:"VGMPROFILE_LOG_LEVEL" envDefault:"info"`
}

// LoadServeConfig reads ServeConfig from the environment.
func LoadServeConfig() (ServeConfig, error) {
	var cfg ServeConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServeConfig{}, err
	}
	if cfg.WatchInterval <= 0 {
		return ServeConfig{}, fmt.Errorf("VGMPROFILE_WATCH_INTERVAL must be positive, got %s", cfg.WatchInterval)
	}
	return cfg, nil
}
