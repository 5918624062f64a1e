package config

import (
	"fmt"
	"os"

	"github.com/cwbudde/fiducialfit/internal/render"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if err := cfg.Fit.Validate(); err != nil {
		return fmt.Errorf("fit validation failed: %w", err)
	}

	opts, err := cfg.PrepOptions()
	if err != nil {
		return fmt.Errorf("image validation failed: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("image validation failed: %w", err)
	}

	if err := validateOverlay(&cfg.Overlay); err != nil {
		return fmt.Errorf("overlay validation failed: %w", err)
	}

	if cfg.Store.Save && cfg.Store.DataDir == "" {
		return fmt.Errorf("store data_dir cannot be empty when save is enabled")
	}

	return nil
}

// validateOverlay validates the overlay configuration
func validateOverlay(o *Overlay) error {
	if _, err := render.ParseColor(o.Color); err != nil {
		return fmt.Errorf("invalid color %s: %w", o.Color, err)
	}
	if o.Opacity < 0 || o.Opacity > 1 {
		return fmt.Errorf("opacity must be between 0 and 1, got %f", o.Opacity)
	}
	if o.Thickness <= 0 {
		return fmt.Errorf("thickness must be positive, got %f", o.Thickness)
	}
	if o.Points {
		if _, err := render.ParseColor(o.PointColor); err != nil {
			return fmt.Errorf("invalid point color %s: %w", o.PointColor, err)
		}
	}
	return nil
}
