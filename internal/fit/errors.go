package fit

import (
	"fmt"

	"github.com/cwbudde/fiducialfit/internal/boundary"
)

// ErrInsufficientData is returned when the grid yields no boundary points.
// Use errors.Is(err, ErrInsufficientData) to check for this error.
var ErrInsufficientData = &InsufficientDataError{}

// InsufficientDataError reports an empty boundary point set
type InsufficientDataError struct {
	Width  int
	Height int
	Margin int
}

func (e *InsufficientDataError) Error() string {
	if e.Width == 0 && e.Height == 0 {
		return "insufficient data: no boundary points"
	}
	return fmt.Sprintf("insufficient data: no boundary points in %dx%d grid with margin %d", e.Width, e.Height, e.Margin)
}

func (e *InsufficientDataError) Is(target error) bool {
	_, ok := target.(*InsufficientDataError)
	return ok
}

// Unwrap exposes boundary.ErrNoBoundary
func (e *InsufficientDataError) Unwrap() error {
	return boundary.ErrNoBoundary
}

// ErrInvalidConfiguration matches any InvalidConfigurationError via errors.Is
var ErrInvalidConfiguration = &InvalidConfigurationError{}

// InvalidConfigurationError reports a configuration value rejected before fitting
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration"
	}
	return "invalid configuration: " + e.Field + " " + e.Reason
}

func (e *InvalidConfigurationError) Is(target error) bool {
	_, ok := target.(*InvalidConfigurationError)
	return ok
}
