package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero margin", func(c *Config) { c.Margin = 0 }, false},
		{"negative margin", func(c *Config) { c.Margin = -1 }, true},
		{"background side", func(c *Config) { c.Side = boundary.SideBackground }, false},
		{"unknown side", func(c *Config) { c.Side = "inside" }, true},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, true},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }, true},
		{"zero patience", func(c *Config) { c.Patience = 0 }, true},
		{"negative restarts", func(c *Config) { c.Restarts = -1 }, true},
		{"zero starts", func(c *Config) { c.Starts = 0 }, true},
		{"unknown objective", func(c *Config) { c.Objective = "huber" }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "anneal" }, true},
		{"bfgs with l1", func(c *Config) { c.Strategy = StrategyBFGS }, true},
		{"bfgs with squared", func(c *Config) {
			c.Strategy = StrategyBFGS
			c.Objective = ObjectiveSquared
		}, false},
		{"mayfly small population", func(c *Config) {
			c.Strategy = StrategyMayfly
			c.PopSize = 10
		}, true},
		{"mayfly no iterations", func(c *Config) {
			c.Strategy = StrategyMayfly
			c.GlobalIterations = 0
		}, true},
		{"hybrid global budget too large", func(c *Config) {
			c.Strategy = StrategyHybrid
			c.MaxIterations = 100
			c.GlobalIterations = 100
		}, true},
		{"hybrid", func(c *Config) { c.Strategy = StrategyHybrid }, false},
		{"start override", func(c *Config) { c.Start = &Params{CenterX: 1, CenterY: 1, Radius: 5} }, false},
		{"zero radius start", func(c *Config) { c.Start = &Params{CenterX: 1, CenterY: 1} }, true},
		{"NaN start", func(c *Config) { c.Start = &Params{CenterX: math.NaN(), Radius: 1} }, true},
		{"bad extra start", func(c *Config) { c.ExtraStarts = []Params{{Radius: -2}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected validation error")
				}
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("Expected ErrInvalidConfiguration, got %T: %v", err, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestExtractOptionsDefaultsSide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = ""
	cfg.Margin = 3

	opts := cfg.extractOptions()
	if opts.Side != boundary.SideForeground || opts.Margin != 3 {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestErrorsMatch(t *testing.T) {
	err := error(&InsufficientDataError{Width: 4, Height: 5, Margin: 1})

	if !errors.Is(err, ErrInsufficientData) {
		t.Error("Expected errors.Is to match ErrInsufficientData")
	}
	if !errors.Is(err, boundary.ErrNoBoundary) {
		t.Error("Expected InsufficientDataError to unwrap to boundary.ErrNoBoundary")
	}
	if errors.Is(err, ErrInvalidConfiguration) {
		t.Error("InsufficientDataError should not match ErrInvalidConfiguration")
	}

	var ide *InsufficientDataError
	if !errors.As(err, &ide) || ide.Width != 4 {
		t.Error("Expected errors.As to expose grid size")
	}
}
