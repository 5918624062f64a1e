package fit

import (
	"fmt"

	"github.com/cwbudde/fiducialfit/internal/boundary"
	"github.com/cwbudde/fiducialfit/internal/opt"
)

// Strategy names accepted in Config.Strategy
const (
	StrategyNelderMead = "nelder-mead"
	StrategyBFGS       = "bfgs"
	StrategyMayfly     = "mayfly"
	StrategyHybrid     = "mayfly+nelder-mead"
)

// Config holds everything a fit needs besides the grid
type Config struct {
	// Margin drops boundary points within Margin pixels of any edge
	Margin int `json:"margin" yaml:"margin"`

	// Side selects which pixel of each transition is kept
	Side boundary.Side `json:"side" yaml:"side"`

	// Start overrides the data-driven initial guess when set
	Start *Params `json:"start,omitempty" yaml:"start,omitempty"`

	// ExtraStarts are additional caller-chosen starting circles
	ExtraStarts []Params `json:"extraStarts,omitempty" yaml:"extra_starts,omitempty"`

	// Objective is "l1" (default) or "squared"
	Objective string `json:"objective" yaml:"objective"`

	// Strategy is one of nelder-mead, bfgs, mayfly, mayfly+nelder-mead
	Strategy string `json:"strategy" yaml:"strategy"`

	// MaxIterations caps the major iterations of one start
	MaxIterations int `json:"maxIterations" yaml:"max_iterations"`

	// Tolerance is the relative stall threshold on objective and parameters
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// Patience is how many stalled iterations count as converged
	Patience int `json:"patience" yaml:"patience"`

	// Restarts rebuilds the simplex around the best vertex after convergence
	Restarts int `json:"restarts" yaml:"restarts"`

	// Starts is the number of generated starting circles run in parallel
	Starts int `json:"starts" yaml:"starts"`

	// GlobalIterations, PopSize and Seed configure the mayfly stage
	GlobalIterations int   `json:"globalIterations" yaml:"global_iterations"`
	PopSize          int   `json:"popSize" yaml:"pop_size"`
	Seed             int64 `json:"seed" yaml:"seed"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Margin:           1,
		Side:             boundary.SideForeground,
		Objective:        ObjectiveL1,
		Strategy:         StrategyNelderMead,
		MaxIterations:    10000,
		Tolerance:        1e-10,
		Patience:         200,
		Restarts:         2,
		Starts:           1,
		GlobalIterations: 200,
		PopSize:          30,
		Seed:             42,
	}
}

// Validate rejects configurations that cannot produce a fit
func (c Config) Validate() error {
	if c.Margin < 0 {
		return &InvalidConfigurationError{Field: "Margin", Reason: "cannot be negative"}
	}
	if _, err := boundary.ParseSide(string(c.Side)); err != nil {
		return &InvalidConfigurationError{Field: "Side", Reason: err.Error()}
	}
	if c.MaxIterations <= 0 {
		return &InvalidConfigurationError{Field: "MaxIterations", Reason: "must be positive"}
	}
	if c.Tolerance < 0 {
		return &InvalidConfigurationError{Field: "Tolerance", Reason: "cannot be negative"}
	}
	if c.Patience < 1 {
		return &InvalidConfigurationError{Field: "Patience", Reason: "must be at least 1"}
	}
	if c.Restarts < 0 {
		return &InvalidConfigurationError{Field: "Restarts", Reason: "cannot be negative"}
	}
	if c.Starts < 1 {
		return &InvalidConfigurationError{Field: "Starts", Reason: "must be at least 1"}
	}
	if c.Start != nil {
		if err := validateStart("Start", *c.Start); err != nil {
			return err
		}
	}
	for i, s := range c.ExtraStarts {
		if err := validateStart(fmt.Sprintf("ExtraStarts[%d]", i), s); err != nil {
			return err
		}
	}

	switch c.Objective {
	case ObjectiveL1, ObjectiveSquared, "":
	default:
		return &InvalidConfigurationError{Field: "Objective", Reason: "unknown objective " + c.Objective}
	}

	switch c.Strategy {
	case StrategyNelderMead, "":
	case StrategyBFGS:
		if c.Objective != ObjectiveSquared {
			return &InvalidConfigurationError{Field: "Strategy", Reason: "bfgs requires the squared objective"}
		}
	case StrategyMayfly, StrategyHybrid:
		if c.PopSize < opt.MinMayflyPopulation {
			return &InvalidConfigurationError{
				Field:  "PopSize",
				Reason: fmt.Sprintf("must be at least %d", opt.MinMayflyPopulation),
			}
		}
		if c.GlobalIterations <= 0 {
			return &InvalidConfigurationError{Field: "GlobalIterations", Reason: "must be positive"}
		}
		if c.Strategy == StrategyHybrid && c.GlobalIterations >= c.MaxIterations {
			return &InvalidConfigurationError{Field: "GlobalIterations", Reason: "must be below MaxIterations"}
		}
	default:
		return &InvalidConfigurationError{Field: "Strategy", Reason: "unknown strategy " + c.Strategy}
	}
	return nil
}

func validateStart(field string, p Params) error {
	if !p.Finite() {
		return &InvalidConfigurationError{Field: field, Reason: "must be finite"}
	}
	if p.Radius <= 0 {
		return &InvalidConfigurationError{Field: field + ".Radius", Reason: "must be positive"}
	}
	return nil
}

// extractOptions maps the config onto boundary options
func (c Config) extractOptions() boundary.Options {
	side := c.Side
	if side == "" {
		side = boundary.SideForeground
	}
	return boundary.Options{Margin: c.Margin, Side: side}
}

// settings maps the config onto optimizer settings
func (c Config) settings(trace func(int, []float64, float64)) opt.Settings {
	return opt.Settings{
		MaxIterations: c.MaxIterations,
		Tolerance:     c.Tolerance,
		Patience:      c.Patience,
		Trace:         trace,
	}
}

// newMinimizer builds a fresh minimizer for one start. simplexSize scales
// the initial simplex to the starting radius.
func (c Config) newMinimizer(simplexSize float64, trace func(int, []float64, float64)) opt.Minimizer {
	s := c.settings(trace)
	switch c.Strategy {
	case StrategyBFGS:
		return opt.NewBFGS(s)
	case StrategyMayfly:
		return opt.NewMayfly(c.GlobalIterations, c.PopSize, c.Seed)
	case StrategyHybrid:
		local := s
		local.MaxIterations = c.MaxIterations - c.GlobalIterations
		return opt.NewChain(
			opt.NewMayfly(c.GlobalIterations, c.PopSize, c.Seed),
			opt.NewNelderMead(local, simplexSize, c.Restarts),
		)
	default:
		return opt.NewNelderMead(s, simplexSize, c.Restarts)
	}
}
