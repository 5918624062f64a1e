package store

// Store defines the interface for run persistence.
//
// Error handling conventions:
//   - Return ErrNotFound if the run doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun atomically saves a run, overwriting any run with the same ID.
	// Invalid runs are rejected with a ValidationError.
	SaveRun(run *Run) error

	// LoadRun retrieves the run with the given ID.
	LoadRun(id string) (*Run, error)

	// ListRuns returns metadata for all runs, oldest first.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the run and all associated artifacts:
	// run.json, trace.jsonl, overlay.png and mask.png.
	DeleteRun(id string) error
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run error.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "run not found: " + e.ID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
