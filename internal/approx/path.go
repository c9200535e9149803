package approx

import "math"

// Path is the ordered sequence of iterates produced by one run. Element 0 is
// the initial draw.
type Path []float64

// Final returns the last iterate.
func (p Path) Final() float64 {
	return p[len(p)-1]
}

func checkSteps(nSteps int) error {
	if nSteps < 0 {
		return ErrInvalidSteps
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// capacity returns the path length for nSteps: the initial draw is always kept.
func capacity(nSteps int) int {
	if nSteps < 1 {
		return 1
	}
	return nSteps
}
