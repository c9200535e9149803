package approx

import (
	"fmt"
	"math"
)

// Schedule is a decaying step-size sequence a(n) = Coef / n^Power.
type Schedule struct {
	Coef  float64
	Power float64
}

// At returns the step size for iteration n. Indices start at 1; n < 1 panics
// because the decay formula divides by n^Power.
func (s Schedule) At(n int) float64 {
	if n < 1 {
		panic(fmt.Sprintf("schedule evaluated at index %d", n))
	}
	return s.Coef / math.Pow(float64(n), s.Power)
}

// Validate checks that the coefficient is strictly positive and that both
// parameters are finite.
func (s Schedule) Validate() error {
	if math.IsNaN(s.Coef) || math.IsInf(s.Coef, 0) || s.Coef <= 0 {
		return fmt.Errorf("%w: coefficient %v must be positive and finite", ErrInvalidSchedule, s.Coef)
	}
	if math.IsNaN(s.Power) || math.IsInf(s.Power, 0) {
		return fmt.Errorf("%w: exponent %v must be finite", ErrInvalidSchedule, s.Power)
	}
	return nil
}

// checkRange verifies that every value the engine will evaluate for indices
// 1..last is strictly positive and finite. n^Power is monotone in n, so the
// endpoints bound the whole range.
func (s Schedule) checkRange(last int) error {
	if last < 1 {
		return nil
	}
	for _, n := range []int{1, last} {
		v := s.At(n)
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: step size at index %d is %v", ErrInvalidSchedule, n, v)
		}
	}
	return nil
}
