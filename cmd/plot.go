package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/report"
)

var plotOpts struct {
	alpha  float64
	output string
	dpi    int
}

var plotCmd = &cobra.Command{
	Use:   "plot CSV...",
	Short: "Plot step against error on log-log axes",
	Long: `Reads one or more path artifacts and draws each as a line of step
against absolute error, both axes on a log scale. Rows at step 0 or with
zero error cannot be shown on log axes and are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().Float64VarP(&plotOpts.alpha, "alpha", "a", 1.0, "Line opacity")
	plotCmd.Flags().StringVarP(&plotOpts.output, "output-path", "o", "errors.png", "Output image path")
	plotCmd.Flags().IntVarP(&plotOpts.dpi, "dpi", "d", 200, "Output image DPI")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	series := make([]report.Series, 0, len(args))
	for i, path := range args {
		records, err := report.ReadFile(path)
		if err != nil {
			return err
		}
		series = append(series, report.Series{
			Label:   fmt.Sprintf("sample %d", i+1),
			Records: records,
		})
	}

	opts := report.DefaultPlotOptions()
	opts.Alpha = plotOpts.alpha
	opts.DPI = plotOpts.dpi

	p, err := report.NewErrorPlot(series, opts)
	if err != nil {
		return err
	}
	if err := report.SavePlot(p, plotOpts.output, opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d series)\n", plotOpts.output, len(series))
	return nil
}
