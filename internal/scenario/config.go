package scenario

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/facette/natsort"
)

// ScenarioConfig declares a custom scenario in a batch file.
type ScenarioConfig struct {
	Algorithm  string  `toml:"algorithm"`
	Expression string  `toml:"expression"`
	Sigma      float64 `toml:"sigma"`
	Target     float64 `toml:"target"`
	Solution   float64 `toml:"solution"`
	Lower      float64 `toml:"lower"`
	Upper      float64 `toml:"upper"`
}

// RunConfig declares one sample path in a batch file. Unset fields take the
// command-line defaults.
type RunConfig struct {
	Scenario   string  `toml:"scenario"`
	Steps      int     `toml:"steps"`
	Seed       int64   `toml:"seed"`
	StepCoef   float64 `toml:"step_coef"`
	StepPower  float64 `toml:"step_power"`
	WidthCoef  float64 `toml:"width_coef"`
	WidthPower float64 `toml:"width_power"`
	Output     string  `toml:"output"`
}

// BatchConfig is the top level of a batch file.
type BatchConfig struct {
	OutputDir string                    `toml:"output_dir"`
	Scenarios map[string]ScenarioConfig `toml:"scenarios"`
	Runs      map[string]RunConfig      `toml:"runs"`
}

// Job is a fully resolved run from a batch file.
type Job struct {
	Name     string
	Scenario *Scenario
	Params   Params
	Output   string
}

// ErrEmptyBatch is returned when a batch file declares no runs.
var ErrEmptyBatch = errors.New("batch declares no runs")

// LoadBatch decodes and resolves a batch file. Every run is validated before
// any is returned, so a bad entry aborts the whole batch up front.
func LoadBatch(path string) ([]Job, error) {
	var cfg BatchConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in batch file: %s", strings.Join(keys, ", "))
	}
	return resolveBatch(&cfg, &meta)
}

func resolveBatch(cfg *BatchConfig, meta *toml.MetaData) ([]Job, error) {
	if len(cfg.Runs) == 0 {
		return nil, ErrEmptyBatch
	}

	custom := make(map[string]*Scenario, len(cfg.Scenarios))
	for name, sc := range cfg.Scenarios {
		s, err := buildScenario(name, sc, meta)
		if err != nil {
			return nil, err
		}
		custom[name] = s
	}

	names := make([]string, 0, len(cfg.Runs))
	for name := range cfg.Runs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })

	jobs := make([]Job, 0, len(names))
	outputs := make(map[string]string, len(names))
	for _, name := range names {
		rc := cfg.Runs[name]

		scenarioName := rc.Scenario
		if scenarioName == "" {
			return nil, fmt.Errorf("run %s: scenario is required", name)
		}
		s, ok := custom[scenarioName]
		if !ok {
			var err error
			if s, err = Builtin(scenarioName); err != nil {
				return nil, fmt.Errorf("run %s: %w", name, err)
			}
		}

		p := DefaultParams()
		p.Steps = rc.Steps
		if meta.IsDefined("runs", name, "seed") {
			p.Seed = rc.Seed
		}
		if meta.IsDefined("runs", name, "step_coef") {
			p.Step.Coef = rc.StepCoef
		}
		if meta.IsDefined("runs", name, "step_power") {
			p.Step.Power = rc.StepPower
		}
		if meta.IsDefined("runs", name, "width_coef") {
			p.Width.Coef = rc.WidthCoef
		}
		if meta.IsDefined("runs", name, "width_power") {
			p.Width.Power = rc.WidthPower
		}
		if err := s.ValidateParams(p); err != nil {
			return nil, fmt.Errorf("run %s: %w", name, err)
		}

		output := rc.Output
		if output == "" {
			output = name + ".csv"
		}
		if !filepath.IsAbs(output) {
			output = filepath.Join(cfg.OutputDir, output)
		}

		if other, dup := outputs[output]; dup {
			return nil, fmt.Errorf("runs %s and %s both write %s", other, name, output)
		}
		outputs[output] = name

		jobs = append(jobs, Job{Name: name, Scenario: s, Params: p, Output: output})
	}
	return jobs, nil
}

func buildScenario(name string, sc ScenarioConfig, meta *toml.MetaData) (*Scenario, error) {
	algorithm, err := ParseAlgorithm(sc.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	if sc.Expression == "" {
		return nil, fmt.Errorf("scenario %s: expression is required", name)
	}
	response, err := ParseResponse(sc.Expression)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}

	s := &Scenario{
		Name:      name,
		Algorithm: algorithm,
		Response:  response,
		Sigma:     1.0,
		Target:    sc.Target,
		Solution:  sc.Solution,
		Lower:     -10.0,
		Upper:     10.0,
	}
	if meta.IsDefined("scenarios", name, "sigma") {
		s.Sigma = sc.Sigma
	}
	if meta.IsDefined("scenarios", name, "lower") {
		s.Lower = sc.Lower
	}
	if meta.IsDefined("scenarios", name, "upper") {
		s.Upper = sc.Upper
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
