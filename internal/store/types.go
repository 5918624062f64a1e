package store

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/fiducialfit/internal/fit"
)

// Input describes where a run's grid came from
type Input struct {
	// Source is the image path, or "simulate" for synthetic scenes
	Source string `json:"source"`

	// Crop is the "x0,y0,x1,y1" region applied before binarizing (empty = none)
	Crop string `json:"crop,omitempty"`

	Soften    float64 `json:"soften,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Invert    bool    `json:"invert,omitempty"`

	// Width and Height are the size of the fitted grid
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Run is a persisted circle fit: what went in, how it was configured and
// what came out.
type Run struct {
	// ID is a random UUID assigned by NewRun
	ID string `json:"id"`

	Input  Input      `json:"input"`
	Config fit.Config `json:"config"`
	Result fit.Result `json:"result"`

	// Duration is the wall time of the fit in milliseconds
	DurationMs int64 `json:"durationMs"`

	// Timestamp records when the run finished
	Timestamp time.Time `json:"timestamp"`
}

// RunInfo is the listing view of a run
type RunInfo struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	CenterX        float64   `json:"centerX"`
	CenterY        float64   `json:"centerY"`
	Radius         float64   `json:"radius"`
	Converged      bool      `json:"converged"`
	FinalObjective float64   `json:"finalObjective"`
	Strategy       string    `json:"strategy"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewRunID returns a fresh random run ID
func NewRunID() string {
	return uuid.NewString()
}

// NewRun creates a run; an empty id is replaced by NewRunID()
func NewRun(id string, input Input, cfg fit.Config, result fit.Result, duration time.Duration) *Run {
	if id == "" {
		id = NewRunID()
	}
	return &Run{
		ID:         id,
		Input:      input,
		Config:     cfg,
		Result:     result,
		DurationMs: duration.Milliseconds(),
		Timestamp:  time.Now(),
	}
}

// ToInfo converts a full Run to RunInfo
func (r *Run) ToInfo() RunInfo {
	return RunInfo{
		ID:             r.ID,
		Source:         r.Input.Source,
		CenterX:        r.Result.CenterX,
		CenterY:        r.Result.CenterY,
		Radius:         r.Result.Radius,
		Converged:      r.Result.Converged,
		FinalObjective: r.Result.FinalObjective,
		Strategy:       r.Result.Strategy,
		Timestamp:      r.Timestamp,
	}
}

// Validate checks if the run has valid data
func (r *Run) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return &ValidationError{Field: "ID", Reason: "must be a UUID"}
	}
	if r.Input.Source == "" {
		return &ValidationError{Field: "Input.Source", Reason: "cannot be empty"}
	}
	if r.Input.Width <= 0 || r.Input.Height <= 0 {
		return &ValidationError{Field: "Input", Reason: "grid size must be positive"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.DurationMs < 0 {
		return &ValidationError{Field: "DurationMs", Reason: "cannot be negative"}
	}
	if err := r.Config.Validate(); err != nil {
		return &ValidationError{Field: "Config", Reason: err.Error()}
	}
	if !r.Result.Params.Finite() || r.Result.Radius <= 0 {
		return &ValidationError{Field: "Result", Reason: "must be a finite circle with positive radius"}
	}
	if r.Result.FinalObjective < 0 || math.IsNaN(r.Result.FinalObjective) {
		return &ValidationError{Field: "Result.FinalObjective", Reason: "cannot be negative"}
	}
	if r.Result.Iterations < 0 {
		return &ValidationError{Field: "Result.Iterations", Reason: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a run validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
