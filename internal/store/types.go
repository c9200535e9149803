package store

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// RunConfig records the parameters of a run. It mirrors scenario.Params and
// the scenario name so that the store does not depend on the simulation code.
type RunConfig struct {
	Scenario   string  `json:"scenario"`
	Algorithm  string  `json:"algorithm"` // robbins-monro or kiefer-wolfowitz
	Steps      int     `json:"steps"`
	Seed       int64   `json:"seed"`
	StepCoef   float64 `json:"stepCoef"`
	StepPower  float64 `json:"stepPower"`
	WidthCoef  float64 `json:"widthCoef,omitempty"`
	WidthPower float64 `json:"widthPower,omitempty"`
	Indexing   string  `json:"indexing,omitempty"` // from-initial or after-initial
}

// Run is the persisted summary of one sample path.
type Run struct {
	// ID is the unique identifier of the run directory
	ID string `json:"id"`

	// Name is an optional human label (batch run name or --name)
	Name string `json:"name,omitempty"`

	Config RunConfig `json:"config"`

	// Initial is the uniformly drawn starting iterate
	Initial float64 `json:"initial"`

	// Final is the last iterate of the path
	Final float64 `json:"final"`

	// FinalError is |Final - solution|
	FinalError float64 `json:"finalError"`

	// Rows is the number of reported rows in the artifact
	Rows int `json:"rows"`

	// Artifact is the CSV path the run was exported to, if any
	Artifact string `json:"artifact,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// RunInfo is the listing view of a run.
type RunInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Scenario   string    `json:"scenario"`
	Steps      int       `json:"steps"`
	Seed       int64     `json:"seed"`
	FinalError float64   `json:"finalError"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRun creates a run record with a fresh ID.
func NewRun(name string, config RunConfig, initial, final, finalError float64, rows int) *Run {
	return &Run{
		ID:         uuid.New().String(),
		Name:       name,
		Config:     config,
		Initial:    initial,
		Final:      final,
		FinalError: finalError,
		Rows:       rows,
		Timestamp:  time.Now(),
	}
}

// DisplayName returns the name, falling back to the ID.
func (r *Run) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// ToInfo converts a full Run to RunInfo.
func (r *Run) ToInfo() RunInfo {
	return RunInfo{
		ID:         r.ID,
		Name:       r.Name,
		Scenario:   r.Config.Scenario,
		Steps:      r.Config.Steps,
		Seed:       r.Config.Seed,
		FinalError: r.FinalError,
		Timestamp:  r.Timestamp,
	}
}

// Validate checks if the run has valid data.
func (r *Run) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Config.Scenario == "" {
		return &ValidationError{Field: "Config.Scenario", Reason: "cannot be empty"}
	}
	switch r.Config.Algorithm {
	case "robbins-monro", "kiefer-wolfowitz":
	default:
		return &ValidationError{Field: "Config.Algorithm", Reason: "unknown algorithm " + r.Config.Algorithm}
	}
	if r.Config.Steps < 0 {
		return &ValidationError{Field: "Config.Steps", Reason: "cannot be negative"}
	}
	if r.Config.StepCoef <= 0 {
		return &ValidationError{Field: "Config.StepCoef", Reason: "must be positive"}
	}
	if r.Config.Algorithm == "kiefer-wolfowitz" && r.Config.WidthCoef <= 0 {
		return &ValidationError{Field: "Config.WidthCoef", Reason: "must be positive"}
	}
	if r.Rows < 0 {
		return &ValidationError{Field: "Rows", Reason: "cannot be negative"}
	}
	if math.IsNaN(r.Final) || math.IsInf(r.Final, 0) {
		return &ValidationError{Field: "Final", Reason: "must be finite"}
	}
	if r.FinalError < 0 {
		return &ValidationError{Field: "FinalError", Reason: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a run validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
