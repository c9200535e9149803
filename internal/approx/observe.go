package approx

// ResponseFunc is the deterministic response hidden behind the noise.
type ResponseFunc func(x float64) float64

// Observation returns one noisy measurement of the response at x.
type Observation interface {
	Observe(x float64) float64
}

// Observer adds one fresh noise draw to the true response on every call.
type Observer struct {
	response ResponseFunc
	noise    Noise
}

// NewObserver wraps response with additive noise.
func NewObserver(response ResponseFunc, noise Noise) *Observer {
	return &Observer{response: response, noise: noise}
}

// Observe returns response(x) + ε.
func (o *Observer) Observe(x float64) float64 {
	return o.response(x) + o.noise.Draw()
}
