package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/scenario"
)

var batchDataDir string

var batchCmd = &cobra.Command{
	Use:   "batch CONFIG.toml",
	Short: "Run every sample path declared in a TOML file",
	Long: `Reads a TOML batch file declaring custom scenarios and named runs, and
computes each run in natural name order. Every run owns its own seeded
generator. The whole file is validated before the first run starts.

Example:

  output_dir = "out"

  [scenarios.shifted]
  algorithm = "robbins-monro"
  expression = "x - 1 + 2 * sin(x - 1)"
  solution = 1.0

  [runs."sample 1"]
  scenario = "robbins-monro"
  steps = 10000
  seed = 1

  [runs."sample 2"]
  scenario = "shifted"
  steps = 10000
  seed = 2
  step_power = 0.75`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchDataDir, "data-dir", "", "Also record every run in this run store")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := scenario.LoadBatch(args[0])
	if err != nil {
		return err
	}

	slog.Info("Starting batch", "file", args[0], "runs", len(jobs))

	for i, job := range jobs {
		slog.Info("Running", "name", job.Name, "index", i+1, "of", len(jobs))
		if _, err := runAndWrite(cmd.OutOrStdout(), job.Scenario, job.Params, job.Output, job.Name, batchDataDir); err != nil {
			return fmt.Errorf("run %s: %w", job.Name, err)
		}
	}

	slog.Info("Batch complete", "runs", len(jobs))
	return nil
}
