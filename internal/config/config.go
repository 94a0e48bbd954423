// Package config holds the immutable application configuration.
// Configuration is loaded once at startup (file, environment, flags via
// viper) and passed explicitly to every component.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/ppicrawl/internal/logger"
)

// Config is the root configuration for the application.
type Config struct {
	// App holds application-level settings.
	App AppConfig `yaml:"app" mapstructure:"app"`
	// Logger holds logging settings.
	Logger logger.Config `yaml:"logger" mapstructure:"logger"`
	// Scraper holds the download phase settings.
	Scraper ScraperConfig `yaml:"scraper" mapstructure:"scraper"`
	// Analysis holds the image analysis phase settings.
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	// Targets are the (location, fuel, metric) value extraction targets.
	Targets []Target `yaml:"targets" mapstructure:"targets"`
}

// AppConfig represents application-level settings.
type AppConfig struct {
	// Name is the name of the application.
	Name string `yaml:"name" mapstructure:"name"`
	// Version is the version of the application.
	Version string `yaml:"version" mapstructure:"version"`
	// Environment is the application environment (development, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Debug indicates whether debug mode is enabled.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Validate checks if the application configuration is valid.
func (c *AppConfig) Validate() error {
	if c.Name == "" {
		return ErrMissingAppName
	}

	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidEnvironment, c.Environment)
	}

	return nil
}

// Load decodes the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if len(cfg.Targets) == 0 {
		cfg.Targets = DefaultTargets()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every configuration section.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Scraper.Validate(); err != nil {
		return fmt.Errorf("scraper: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	for i := range c.Targets {
		if err := c.Targets[i].Validate(); err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
	}
	return nil
}
