package store

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestRun_JSONSerialization(t *testing.T) {
	original := createTestRun("run-json", "sample 3")
	original.Config.Algorithm = "kiefer-wolfowitz"
	original.Config.WidthCoef = 1.0
	original.Config.WidthPower = 1.0 / 3.0
	original.Timestamp = time.Date(2025, 10, 23, 10, 30, 0, 0, time.UTC)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal run: %v", err)
	}

	var restored Run
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal run: %v", err)
	}

	if restored.Config != original.Config {
		t.Errorf("Config mismatch: expected %+v, got %+v", original.Config, restored.Config)
	}
	if restored.Initial != original.Initial {
		t.Errorf("Initial mismatch: expected %v, got %v", original.Initial, restored.Initial)
	}
	if !restored.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp mismatch: expected %v, got %v", original.Timestamp, restored.Timestamp)
	}
}

func TestRun_Validate_Valid(t *testing.T) {
	if err := createTestRun("ok", "").Validate(); err != nil {
		t.Errorf("Expected valid run, got %v", err)
	}
}

func TestRun_Validate_Invalid(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Run)
	}{
		{"ID", func(r *Run) { r.ID = "" }},
		{"Timestamp", func(r *Run) { r.Timestamp = time.Time{} }},
		{"Config.Scenario", func(r *Run) { r.Config.Scenario = "" }},
		{"Config.Algorithm", func(r *Run) { r.Config.Algorithm = "newton" }},
		{"Config.Steps", func(r *Run) { r.Config.Steps = -1 }},
		{"Config.StepCoef", func(r *Run) { r.Config.StepCoef = -0.5 }},
		{"Config.WidthCoef", func(r *Run) { r.Config.Algorithm = "kiefer-wolfowitz"; r.Config.WidthCoef = 0 }},
		{"Rows", func(r *Run) { r.Rows = -2 }},
		{"Final", func(r *Run) { r.Final = math.Inf(1) }},
		{"FinalError", func(r *Run) { r.FinalError = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			run := createTestRun("r", "")
			tt.mutate(run)

			err := run.Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, vErr.Field)
			}
		})
	}
}

func TestNewRun(t *testing.T) {
	cfg := RunConfig{Scenario: "robbins-monro", Algorithm: "robbins-monro", Steps: 5, Seed: 1, StepCoef: 1, StepPower: 1}
	r1 := NewRun("", cfg, 1, 2, 2, 5)
	r2 := NewRun("", cfg, 1, 2, 2, 5)

	if r1.ID == "" || r1.ID == r2.ID {
		t.Errorf("Expected unique non-empty IDs, got %q and %q", r1.ID, r2.ID)
	}
	if r1.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
	if err := r1.Validate(); err != nil {
		t.Errorf("NewRun produced invalid run: %v", err)
	}
	if r1.DisplayName() != r1.ID {
		t.Errorf("DisplayName should fall back to ID")
	}
}

func TestRun_ToInfo(t *testing.T) {
	run := createTestRun("info", "sample 1")
	info := run.ToInfo()

	if info.ID != run.ID || info.Name != run.Name {
		t.Errorf("Identity mismatch: %+v", info)
	}
	if info.Scenario != run.Config.Scenario || info.Steps != run.Config.Steps || info.Seed != run.Config.Seed {
		t.Errorf("Config fields mismatch: %+v", info)
	}
	if info.FinalError != run.FinalError {
		t.Errorf("FinalError mismatch: expected %v, got %v", run.FinalError, info.FinalError)
	}
	if run.DisplayName() != "sample 1" {
		t.Errorf("DisplayName = %q", run.DisplayName())
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{RunID: "abc"}
	if err.Error() != "run not found: abc" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected errors.Is to match ErrNotFound")
	}
	if ErrNotFound.Error() != "run not found" {
		t.Errorf("Unexpected sentinel message %q", ErrNotFound.Error())
	}
}
