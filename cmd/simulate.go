package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/cwbudde/stochapprox/internal/report"
	"github.com/cwbudde/stochapprox/internal/scenario"
	"github.com/cwbudde/stochapprox/internal/store"
)

// parseSteps reads the positional step count. Negative values are accepted
// here and rejected by the engine validation before any draw.
func parseSteps(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid step count %q: %w", arg, err)
	}
	return n, nil
}

// runAndWrite simulates one path, writes its artifact and, when dataDir is
// set, records the run in the run store. Nothing is written if the
// simulation fails.
func runAndWrite(w io.Writer, s *scenario.Scenario, p scenario.Params, output, name, dataDir string) (*store.Run, error) {
	result, err := s.Simulate(p)
	if err != nil {
		return nil, err
	}

	if err := report.WriteFile(output, result.Records); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	final := result.Path.Final()
	run := store.NewRun(name, runConfig(s, p), result.Path[0], final, math.Abs(final-s.Solution), len(result.Records))
	run.Artifact = output

	if dataDir != "" {
		runStore, err := store.NewFSStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		if err := runStore.SaveRun(run, result.Records); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		slog.Info("Run recorded", "run_id", run.ID, "data_dir", dataDir)
	}

	last, ok := result.Final()
	if !ok {
		fmt.Fprintf(w, "Wrote %s (no rows, initial %.6g)\n", output, run.Initial)
		return run, nil
	}
	fmt.Fprintf(w, "Wrote %s (%d rows, step %d value %.6g, error %.3g)\n", output, run.Rows, last.Step, last.Value, last.Error)
	return run, nil
}

func runConfig(s *scenario.Scenario, p scenario.Params) store.RunConfig {
	cfg := store.RunConfig{
		Scenario:  s.Name,
		Algorithm: string(s.Algorithm),
		Steps:     p.Steps,
		Seed:      p.Seed,
		StepCoef:  p.Step.Coef,
		StepPower: p.Step.Power,
		Indexing:  s.Algorithm.Indexing().String(),
	}
	if s.Algorithm == scenario.KieferWolfowitz {
		cfg.WidthCoef = p.Width.Coef
		cfg.WidthPower = p.Width.Power
	}
	return cfg
}
