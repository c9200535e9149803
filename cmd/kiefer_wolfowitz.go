package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/scenario"
)

var kwOpts struct {
	stepCoefA  float64
	stepPowerA float64
	stepCoefC  float64
	stepPowerC float64
	seed       int64
	name       string
	dataDir    string
}

var kieferWolfowitzCmd = &cobra.Command{
	Use:     "kiefer-wolfowitz N OUTPUT",
	Aliases: []string{"kw"},
	Short:   "Compute a Kiefer-Wolfowitz sample path",
	Long: `Computes a sample path of N steps by the Kiefer-Wolfowitz algorithm on
f(x) = -|x| with standard normal noise. The n-th step sizes are
a_n = d / n^p and c_n = e / n^q. Rows are indexed from 1; the initial draw
is not reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runKieferWolfowitz,
}

func init() {
	flags := kieferWolfowitzCmd.Flags()
	flags.Float64VarP(&kwOpts.stepCoefA, "step-coef-a", "c", 1.0, "Coefficient in the step size a_n")
	flags.Float64VarP(&kwOpts.stepPowerA, "step-power-a", "p", 1.0, "Exponent in the step size a_n")
	flags.Float64VarP(&kwOpts.stepCoefC, "step-coef-c", "C", 1.0, "Coefficient in the step size c_n")
	flags.Float64VarP(&kwOpts.stepPowerC, "step-power-c", "P", 1.0/3.0, "Exponent in the step size c_n")
	flags.Int64VarP(&kwOpts.seed, "seed", "s", 42, "Seed of RNG")
	flags.StringVar(&kwOpts.name, "name", "", "Run name used when recording to --data-dir")
	flags.StringVar(&kwOpts.dataDir, "data-dir", "", "Also record the run in this run store")

	rootCmd.AddCommand(kieferWolfowitzCmd)
}

func runKieferWolfowitz(cmd *cobra.Command, args []string) error {
	steps, err := parseSteps(args[0])
	if err != nil {
		return err
	}

	s, err := scenario.Builtin(scenario.Optimization)
	if err != nil {
		return err
	}

	p := scenario.DefaultParams()
	p.Steps = steps
	p.Seed = kwOpts.seed
	p.Step.Coef = kwOpts.stepCoefA
	p.Step.Power = kwOpts.stepPowerA
	p.Width.Coef = kwOpts.stepCoefC
	p.Width.Power = kwOpts.stepPowerC

	_, err = runAndWrite(cmd.OutOrStdout(), s, p, args[1], kwOpts.name, kwOpts.dataDir)
	return err
}
