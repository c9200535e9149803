package approx

import (
	"fmt"
	"log/slog"
)

// KieferWolfowitz climbs toward a maximiser using a two-point
// finite-difference slope estimate with perturbation width c(n).
type KieferWolfowitz struct {
	Step  Schedule
	Width Schedule
}

// Validate rejects schedules that cannot be evaluated for nSteps. The width is
// a divisor, so it must stay strictly positive over every evaluated index.
func (kw KieferWolfowitz) Validate(nSteps int) error {
	if err := checkSteps(nSteps); err != nil {
		return err
	}
	if err := kw.Step.Validate(); err != nil {
		return fmt.Errorf("step schedule: %w", err)
	}
	if err := kw.Width.Validate(); err != nil {
		return fmt.Errorf("width schedule: %w", err)
	}
	if err := kw.Step.checkRange(nSteps - 1); err != nil {
		return fmt.Errorf("step schedule: %w", err)
	}
	if err := kw.Width.checkRange(nSteps - 1); err != nil {
		return fmt.Errorf("width schedule: %w", err)
	}
	return nil
}

// Run computes a sample path of nSteps iterates starting from x0:
// x_i = x_{i-1} + a(i)(y(x+c) - y(x-c))/c(i).
func (kw KieferWolfowitz) Run(nSteps int, x0 float64, obs Observation) (Path, error) {
	if err := kw.Validate(nSteps); err != nil {
		return nil, err
	}

	slog.Debug("Starting Kiefer-Wolfowitz run", "steps", nSteps, "x0", x0,
		"step_coef", kw.Step.Coef, "step_power", kw.Step.Power,
		"width_coef", kw.Width.Coef, "width_power", kw.Width.Power)

	path := make(Path, 1, capacity(nSteps))
	path[0] = x0
	x := x0
	for i := 1; i < nSteps; i++ {
		a := kw.Step.At(i)
		c := kw.Width.At(i)
		y1 := obs.Observe(x + c)
		y2 := obs.Observe(x - c)
		x += a * (y1 - y2) / c
		if !finite(x) {
			return nil, &StepError{Step: i, Value: x, Wrapped: ErrNonFinite}
		}
		path = append(path, x)
	}

	slog.Debug("Kiefer-Wolfowitz run complete", "steps", len(path), "final", x)
	return path, nil
}
