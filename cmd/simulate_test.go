package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/cwbudde/stochapprox/internal/approx"
	"github.com/cwbudde/stochapprox/internal/report"
	"github.com/cwbudde/stochapprox/internal/scenario"
	"github.com/cwbudde/stochapprox/internal/store"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"10000", 10000, false},
		{"-1", -1, false},
		{"ten", 0, true},
		{"1.5", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSteps(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSteps(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSteps(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestRunAndWrite_RobbinsMonro(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "nested", "rm.csv")
	dataDir := filepath.Join(tmpDir, "data")

	s, err := scenario.Builtin(scenario.RootFinding)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	p := scenario.DefaultParams()
	p.Steps = 5

	var out bytes.Buffer
	run, err := runAndWrite(&out, s, p, output, "sample 1", dataDir)
	if err != nil {
		t.Fatalf("runAndWrite failed: %v", err)
	}

	records, err := report.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(records))
	}
	if records[0].Step != 0 || records[4].Step != 4 {
		t.Errorf("Expected steps 0..4, got %d..%d", records[0].Step, records[4].Step)
	}
	if run.Rows != 5 || run.Initial != records[0].Value || run.Final != records[4].Value {
		t.Errorf("Run summary does not match artifact: %+v", run)
	}
	if !strings.Contains(out.String(), output) {
		t.Errorf("Expected output path in message, got %q", out.String())
	}

	runStore, err := store.NewFSStore(dataDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	loaded, err := runStore.LoadRun(run.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if loaded.Name != "sample 1" || loaded.Config.Steps != 5 || loaded.Config.Seed != 42 {
		t.Errorf("Unexpected recorded run: %+v", loaded)
	}
	if loaded.Config.Indexing != "from-initial" {
		t.Errorf("Indexing = %q, want from-initial", loaded.Config.Indexing)
	}
	if !strings.Contains(out.String(), "step 4") {
		t.Errorf("Expected last reported step in message, got %q", out.String())
	}
}

func TestRunAndWrite_KieferWolfowitzRows(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := scenario.Builtin(scenario.Optimization)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	p := scenario.DefaultParams()
	p.Steps = 5

	output := filepath.Join(tmpDir, "kw.csv")
	run, err := runAndWrite(&bytes.Buffer{}, s, p, output, "", "")
	if err != nil {
		t.Fatalf("runAndWrite failed: %v", err)
	}
	if run.Config.WidthCoef != 1 || run.Config.WidthPower != 1.0/3.0 {
		t.Errorf("Expected width schedule in run config, got %+v", run.Config)
	}
	if run.Config.Indexing != "after-initial" {
		t.Errorf("Indexing = %q, want after-initial", run.Config.Indexing)
	}

	records, err := report.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(records) != 4 || records[0].Step != 1 {
		t.Errorf("Expected rows for steps 1..4, got %+v", records)
	}
}

func TestRunAndWrite_NegativeStepsWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "rm.csv")

	s, err := scenario.Builtin(scenario.RootFinding)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	p := scenario.DefaultParams()
	p.Steps = -1

	_, err = runAndWrite(&bytes.Buffer{}, s, p, output, "", filepath.Join(tmpDir, "data"))
	if !errors.Is(err, approx.ErrInvalidSteps) {
		t.Fatalf("Expected ErrInvalidSteps, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("Expected no artifact, stat returned %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "data")); !os.IsNotExist(err) {
		t.Errorf("Expected no run store, stat returned %v", err)
	}
}

func TestRunAndWrite_NoRows(t *testing.T) {
	s, err := scenario.Builtin(scenario.Optimization)
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	p := scenario.DefaultParams()
	p.Steps = 1

	var out bytes.Buffer
	run, err := runAndWrite(&out, s, p, filepath.Join(t.TempDir(), "kw.csv"), "", "")
	if err != nil {
		t.Fatalf("runAndWrite failed: %v", err)
	}
	if run.Rows != 0 {
		t.Errorf("Expected 0 rows, got %d", run.Rows)
	}
	if !strings.Contains(out.String(), "no rows") {
		t.Errorf("Expected no-rows message, got %q", out.String())
	}
}

func TestRunBatch(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")
	config := filepath.Join(tmpDir, "batch.toml")

	content := fmt.Sprintf(`output_dir = %q

[scenarios.shifted]
algorithm = "robbins-monro"
expression = "x - 1 + 2 * sin(x - 1)"
solution = 1.0

[runs."sample 2"]
scenario = "kiefer-wolfowitz"
steps = 5

[runs."sample 10"]
scenario = "shifted"
steps = 3
seed = 7
`, outDir)
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write batch file: %v", err)
	}

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runBatch(cmd, []string{config}); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}

	kw, err := report.ReadFile(filepath.Join(outDir, "sample 2.csv"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(kw) != 4 {
		t.Errorf("Expected 4 rows for sample 2, got %d", len(kw))
	}

	shifted, err := report.ReadFile(filepath.Join(outDir, "sample 10.csv"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(shifted) != 3 {
		t.Errorf("Expected 3 rows for sample 10, got %d", len(shifted))
	}

	// Natural order runs "sample 2" before "sample 10".
	msg := out.String()
	if strings.Index(msg, "sample 2.csv") > strings.Index(msg, "sample 10.csv") {
		t.Errorf("Expected natural run order, got %q", msg)
	}
}

func TestRunBatch_InvalidRunWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")
	config := filepath.Join(tmpDir, "batch.toml")

	content := fmt.Sprintf(`output_dir = %q

[runs.a]
scenario = "robbins-monro"
steps = 5

[runs.b]
scenario = "robbins-monro"
steps = -3
`, outDir)
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write batch file: %v", err)
	}

	err := runBatch(&cobra.Command{}, []string{config})
	if !errors.Is(err, approx.ErrInvalidSteps) {
		t.Fatalf("Expected ErrInvalidSteps, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("Expected no output directory, stat returned %v", err)
	}
}

func TestRunPlot(t *testing.T) {
	tmpDir := t.TempDir()

	records := []report.Record{
		{Step: 0, Value: 4, Error: 4},
		{Step: 1, Value: 2, Error: 2},
		{Step: 2, Value: 1, Error: 1},
		{Step: 3, Value: 0.5, Error: 0.5},
	}
	input := filepath.Join(tmpDir, "path.csv")
	if err := report.WriteFile(input, records); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	original := plotOpts
	defer func() { plotOpts = original }()
	plotOpts.alpha = 0.5
	plotOpts.dpi = 50
	plotOpts.output = filepath.Join(tmpDir, "errors.png")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	if err := runPlot(cmd, []string{input}); err != nil {
		t.Fatalf("runPlot failed: %v", err)
	}

	info, err := os.Stat(plotOpts.output)
	if err != nil {
		t.Fatalf("Expected plot file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty plot file")
	}
}
