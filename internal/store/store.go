package store

import "github.com/cwbudde/stochapprox/internal/report"

// Store defines the interface for run persistence operations.
// Implementations must be safe for use by independent processes writing
// different runs.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if the run doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun persists the run metadata and its report rows. Both files are
	// written atomically; the rows are written first so that a listed run
	// always has its artifact.
	SaveRun(run *Run, records []report.Record) error

	// LoadRun retrieves the metadata of a run.
	LoadRun(id string) (*Run, error)

	// LoadRecords retrieves the report rows of a run.
	LoadRecords(id string) ([]report.Record, error)

	// ListRuns returns metadata for all stored runs in natural name order.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the run directory and everything in it.
	DeleteRun(id string) error
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
