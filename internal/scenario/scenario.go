package scenario

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/stochapprox/internal/approx"
	"github.com/cwbudde/stochapprox/internal/report"
)

// Algorithm selects the update engine a scenario runs.
type Algorithm string

const (
	RobbinsMonro    Algorithm = "robbins-monro"
	KieferWolfowitz Algorithm = "kiefer-wolfowitz"
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case RobbinsMonro, KieferWolfowitz:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("unknown algorithm: %s", name)
	}
}

// Indexing returns how the algorithm's path is reported.
func (a Algorithm) Indexing() report.Indexing {
	if a == KieferWolfowitz {
		return report.AfterInitial
	}
	return report.FromInitial
}

// Scenario fixes everything about a run that is not a tuning parameter: the
// hidden response, the noise level, the target and the known solution.
type Scenario struct {
	Name      string
	Algorithm Algorithm
	Response  approx.ResponseFunc
	Sigma     float64 // noise standard deviation
	Target    float64 // Robbins-Monro only
	Solution  float64 // known root or maximiser
	Lower     float64 // initial draw interval
	Upper     float64
}

// Built-in scenario names.
const (
	RootFinding  = "robbins-monro"
	Optimization = "kiefer-wolfowitz"
)

// Builtin returns the named built-in scenario.
func Builtin(name string) (*Scenario, error) {
	switch name {
	case RootFinding:
		return &Scenario{
			Name:      RootFinding,
			Algorithm: RobbinsMonro,
			Response:  func(x float64) float64 { return x + 2.0*math.Sin(x) },
			Sigma:     1.0,
			Target:    0.0,
			Solution:  0.0,
			Lower:     -10.0,
			Upper:     10.0,
		}, nil
	case Optimization:
		return &Scenario{
			Name:      Optimization,
			Algorithm: KieferWolfowitz,
			Response:  func(x float64) float64 { return -math.Abs(x) },
			Sigma:     1.0,
			Solution:  0.0,
			Lower:     -10.0,
			Upper:     10.0,
		}, nil
	default:
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
}

// Validate checks the scenario fields the engines rely on.
func (s *Scenario) Validate() error {
	if s.Response == nil {
		return fmt.Errorf("scenario %s: response function is required", s.Name)
	}
	if _, err := ParseAlgorithm(string(s.Algorithm)); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if math.IsNaN(s.Sigma) || math.IsInf(s.Sigma, 0) || s.Sigma < 0 {
		return fmt.Errorf("scenario %s: noise sigma %v must be non-negative and finite", s.Name, s.Sigma)
	}
	if !(s.Lower < s.Upper) || math.IsInf(s.Lower, 0) || math.IsInf(s.Upper, 0) {
		return fmt.Errorf("scenario %s: initial interval [%v, %v] is invalid", s.Name, s.Lower, s.Upper)
	}
	return nil
}

// Params are the per-run tuning parameters.
type Params struct {
	Steps int
	Seed  int64
	Step  approx.Schedule // a(n)
	Width approx.Schedule // c(n), Kiefer-Wolfowitz only
}

// DefaultParams returns the defaults of the command-line tools.
func DefaultParams() Params {
	return Params{
		Steps: 0,
		Seed:  42,
		Step:  approx.Schedule{Coef: 1.0, Power: 1.0},
		Width: approx.Schedule{Coef: 1.0, Power: 1.0 / 3.0},
	}
}

// Result is one completed sample path and its report rows.
type Result struct {
	Path    approx.Path
	Records []report.Record
}

// Final returns the last reported record, or false when nothing was reported.
func (r *Result) Final() (report.Record, bool) {
	if len(r.Records) == 0 {
		return report.Record{}, false
	}
	return r.Records[len(r.Records)-1], true
}

// ValidateParams checks params against the scenario's algorithm without drawing.
func (s *Scenario) ValidateParams(p Params) error {
	switch s.Algorithm {
	case RobbinsMonro:
		return approx.RobbinsMonro{Step: p.Step, Target: s.Target}.Validate(p.Steps)
	case KieferWolfowitz:
		return approx.KieferWolfowitz{Step: p.Step, Width: p.Width}.Validate(p.Steps)
	default:
		return fmt.Errorf("unknown algorithm: %s", s.Algorithm)
	}
}

// Simulate runs one sample path. The run owns a single generator seeded from
// p.Seed: the initial iterate is drawn first, then every observation draws
// its noise from the same stream.
func (s *Scenario) Simulate(p Params) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := s.ValidateParams(p); err != nil {
		return nil, err
	}

	src := approx.NewSource(p.Seed)
	x0 := approx.InitialDraw(s.Lower, s.Upper, src)
	noise := approx.NewGaussian(s.Sigma, src)
	obs := approx.NewObserver(s.Response, noise)

	slog.Info("Starting simulation", "scenario", s.Name, "algorithm", s.Algorithm,
		"steps", p.Steps, "seed", p.Seed, "sigma", noise.Sigma(), "x0", x0)

	var path approx.Path
	var err error
	switch s.Algorithm {
	case RobbinsMonro:
		path, err = approx.RobbinsMonro{Step: p.Step, Target: s.Target}.Run(p.Steps, x0, obs)
	case KieferWolfowitz:
		path, err = approx.KieferWolfowitz{Step: p.Step, Width: p.Width}.Run(p.Steps, x0, obs)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := &Result{
		Path:    path,
		Records: report.Records(path, s.Solution, s.Algorithm.Indexing()),
	}

	slog.Info("Simulation complete", "scenario", s.Name, "rows", len(result.Records),
		"final", path.Final(), "final_error", math.Abs(path.Final()-s.Solution))
	return result, nil
}
