package approx

import (
	"errors"
	"fmt"
)

// Configuration and arithmetic errors reported by the update engines.
var (
	// ErrInvalidSteps indicates a negative step count.
	ErrInvalidSteps = errors.New("approx: step count must be non-negative")

	// ErrInvalidSchedule indicates a schedule that would produce a zero,
	// negative or non-finite step size for an evaluated index.
	ErrInvalidSchedule = errors.New("approx: invalid step-size schedule")

	// ErrNonFinite indicates an iterate became NaN or infinite.
	ErrNonFinite = errors.New("approx: iterate is not finite")
)

// StepError annotates an engine failure with the transition that caused it.
type StepError struct {
	Step    int
	Value   float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v (value %v)", e.Step, e.Wrapped, e.Value)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
