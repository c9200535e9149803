package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/report"
	"github.com/cwbudde/stochapprox/internal/store"
)

var (
	runsDataDir   string
	keepLast      int
	olderThanDays int
	forceClean    bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded runs",
	Long: `Manage runs recorded with --data-dir, including listing, inspecting and
cleaning old runs.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded runs",
	Long:  `Display all runs with metadata including name, scenario, steps, seed, final error and size.`,
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show RUN-ID",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old runs",
	Long: `Delete old runs based on retention policy.
You can keep only the newest N runs or delete runs older than N days.`,
	RunE: runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data-dir", "./data", "Base directory for run storage")

	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

// showTail is the number of trailing rows printed by runs show.
const showTail = 5

func runListRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tNAME\tSCENARIO\tSTEPS\tSEED\tFINAL ERROR\tTIMESTAMP\tSIZE")
	fmt.Fprintln(w, "------\t----\t--------\t-----\t----\t-----------\t---------\t----")

	for _, info := range infos {
		size, err := getDirSize(runStore.RunDir(info.ID))
		sizeStr := "unknown"
		if err == nil {
			sizeStr = formatBytes(size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.6g\t%s\t%s\n",
			shortID(info.ID),
			info.DisplayName(),
			info.Scenario,
			info.Steps,
			info.Seed,
			info.FinalError,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			sizeStr,
		)
	}

	w.Flush()

	fmt.Fprintf(out, "\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	run, err := runStore.LoadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run: %s\n", run.DisplayName())
	fmt.Fprintf(out, "ID: %s\n", run.ID)
	fmt.Fprintf(out, "Recorded: %s\n", run.Timestamp.Format(time.RFC3339))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  Scenario: %s (%s)\n", run.Config.Scenario, run.Config.Algorithm)
	fmt.Fprintf(out, "  Steps: %d\n", run.Config.Steps)
	fmt.Fprintf(out, "  Seed: %d\n", run.Config.Seed)
	fmt.Fprintf(out, "  a_n: %g / n^%g\n", run.Config.StepCoef, run.Config.StepPower)
	if run.Config.Algorithm == "kiefer-wolfowitz" {
		fmt.Fprintf(out, "  c_n: %g / n^%g\n", run.Config.WidthCoef, run.Config.WidthPower)
	}
	if run.Config.Indexing != "" {
		fmt.Fprintf(out, "  Indexing: %s\n", run.Config.Indexing)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Result:")
	fmt.Fprintf(out, "  Initial: %.6g\n", run.Initial)
	fmt.Fprintf(out, "  Final: %.6g\n", run.Final)
	fmt.Fprintf(out, "  Final error: %.6g\n", run.FinalError)
	fmt.Fprintf(out, "  Rows: %d\n", run.Rows)
	fmt.Fprintf(out, "  Records: %s\n", runStore.RecordsPath(run.ID))
	if run.Artifact != "" {
		fmt.Fprintf(out, "  Exported to: %s\n", run.Artifact)
	}

	records, err := runStore.LoadRecords(run.ID)
	if err != nil {
		return fmt.Errorf("failed to load run records: %w", err)
	}
	printTail(out, records, showTail)
	return nil
}

// printTail writes the last n records as a table.
func printTail(out io.Writer, records []report.Record, n int) {
	if len(records) == 0 {
		return
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tVALUE\tERROR")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%.6g\t%.6g\n", r.Step, r.Value, r.Error)
	}
	w.Flush()
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	runStore, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs to clean.")
		return nil
	}

	toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays)

	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No runs match deletion criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d run(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(out, "  - %s %s (%s)\n",
			shortID(info.ID),
			info.DisplayName(),
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean {
		fmt.Fprint(out, "\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := runStore.DeleteRun(info.ID); err != nil {
			slog.Error("Failed to delete run", "run_id", info.ID, "error", err)
			failed++
		} else {
			slog.Info("Deleted run", "run_id", info.ID)
			deleted++
		}
	}

	fmt.Fprintf(out, "\nDeleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

// selectRunsForDeletion determines which runs should be deleted based on retention policy
func selectRunsForDeletion(infos []store.RunInfo, keepLast int, olderThanDays int) []store.RunInfo {
	var toDelete []store.RunInfo
	selected := map[string]bool{}

	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				toDelete = append(toDelete, info)
				selected[info.ID] = true
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		sorted := make([]store.RunInfo, len(infos))
		copy(sorted, infos)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})

		// Oldest first; everything before the newest keepLast goes.
		for _, info := range sorted[:len(sorted)-keepLast] {
			if !selected[info.ID] {
				toDelete = append(toDelete, info)
				selected[info.ID] = true
			}
		}
	}

	return toDelete
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
