package approx

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noise produces independent zero-mean perturbations.
type Noise interface {
	Draw() float64
}

// NewSource returns the seeded generator a single run draws from. Every random
// quantity of a run (initial iterate and all noise) must come from one source
// so that the same seed reproduces the same path.
func NewSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(seed))
}

// Gaussian draws from Normal(0, sigma).
type Gaussian struct {
	dist distuv.Normal
}

// NewGaussian creates a Gaussian noise source on src.
func NewGaussian(sigma float64, src rand.Source) *Gaussian {
	return &Gaussian{
		dist: distuv.Normal{Mu: 0, Sigma: sigma, Src: src},
	}
}

// Draw returns one sample and advances the underlying source.
func (g *Gaussian) Draw() float64 {
	return g.dist.Rand()
}

// Sigma returns the standard deviation of the noise.
func (g *Gaussian) Sigma() float64 {
	return g.dist.Sigma
}

// InitialDraw samples the starting iterate uniformly from [lower, upper].
func InitialDraw(lower, upper float64, src rand.Source) float64 {
	return distuv.Uniform{Min: lower, Max: upper, Src: src}.Rand()
}
