package approx

import (
	"fmt"
	"log/slog"
)

// RobbinsMonro drives a noisy observation toward Target.
type RobbinsMonro struct {
	Step   Schedule
	Target float64
}

// Validate rejects schedules that cannot be evaluated for nSteps.
func (rm RobbinsMonro) Validate(nSteps int) error {
	if err := checkSteps(nSteps); err != nil {
		return err
	}
	if err := rm.Step.Validate(); err != nil {
		return fmt.Errorf("step schedule: %w", err)
	}
	if err := rm.Step.checkRange(nSteps - 1); err != nil {
		return fmt.Errorf("step schedule: %w", err)
	}
	return nil
}

// Run computes a sample path of nSteps iterates starting from x0, using one
// observation per transition: x_i = x_{i-1} + a(i)(Target - y).
func (rm RobbinsMonro) Run(nSteps int, x0 float64, obs Observation) (Path, error) {
	if err := rm.Validate(nSteps); err != nil {
		return nil, err
	}

	slog.Debug("Starting Robbins-Monro run", "steps", nSteps, "x0", x0,
		"step_coef", rm.Step.Coef, "step_power", rm.Step.Power, "target", rm.Target)

	path := make(Path, 1, capacity(nSteps))
	path[0] = x0
	x := x0
	for i := 1; i < nSteps; i++ {
		a := rm.Step.At(i)
		y := obs.Observe(x)
		x += a * (rm.Target - y)
		if !finite(x) {
			return nil, &StepError{Step: i, Value: x, Wrapped: ErrNonFinite}
		}
		path = append(path, x)
	}

	slog.Debug("Robbins-Monro run complete", "steps", len(path), "final", x)
	return path, nil
}
