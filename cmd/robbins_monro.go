package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/scenario"
)

var rmOpts struct {
	stepCoef  float64
	stepPower float64
	seed      int64
	name      string
	dataDir   string
}

var robbinsMonroCmd = &cobra.Command{
	Use:     "robbins-monro N OUTPUT",
	Aliases: []string{"rm"},
	Short:   "Compute a Robbins-Monro sample path",
	Long: `Computes a sample path of N steps by the Robbins-Monro algorithm on
f(x) = x + 2 sin(x) with standard normal noise and target 0. The n-th step
size is a_n = c / n^p. Rows are indexed from 0 (the initial draw).`,
	Args: cobra.ExactArgs(2),
	RunE: runRobbinsMonro,
}

func init() {
	robbinsMonroCmd.Flags().Float64VarP(&rmOpts.stepCoef, "step-coef", "c", 1.0, "Coefficient in the step size")
	robbinsMonroCmd.Flags().Float64VarP(&rmOpts.stepPower, "step-power", "p", 1.0, "Exponent in the step size")
	robbinsMonroCmd.Flags().Int64VarP(&rmOpts.seed, "seed", "s", 42, "Seed of RNG")
	robbinsMonroCmd.Flags().StringVar(&rmOpts.name, "name", "", "Run name used when recording to --data-dir")
	robbinsMonroCmd.Flags().StringVar(&rmOpts.dataDir, "data-dir", "", "Also record the run in this run store")

	rootCmd.AddCommand(robbinsMonroCmd)
}

func runRobbinsMonro(cmd *cobra.Command, args []string) error {
	steps, err := parseSteps(args[0])
	if err != nil {
		return err
	}

	s, err := scenario.Builtin(scenario.RootFinding)
	if err != nil {
		return err
	}

	p := scenario.DefaultParams()
	p.Steps = steps
	p.Seed = rmOpts.seed
	p.Step.Coef = rmOpts.stepCoef
	p.Step.Power = rmOpts.stepPower

	_, err = runAndWrite(cmd.OutOrStdout(), s, p, args[1], rmOpts.name, rmOpts.dataDir)
	return err
}
