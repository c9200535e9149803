package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/facette/natsort"

	"github.com/cwbudde/stochapprox/internal/report"
)

// FSStore implements the Store interface using filesystem-based persistence.
// Runs are stored in a directory structure: <baseDir>/runs/<runID>/
//
// Thread-safety: This implementation uses atomic file operations (rename)
// and does not require locks.
type FSStore struct {
	baseDir string // Root directory for all run data (e.g., "./data")
}

// NewFSStore creates a new filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FSStore{
		baseDir: baseDir,
	}, nil
}

// RunDir returns the directory path for a given run ID.
func (fs *FSStore) RunDir(id string) string {
	return filepath.Join(fs.baseDir, "runs", id)
}

func (fs *FSStore) runPath(id string) string {
	return filepath.Join(fs.RunDir(id), "run.json")
}

// RecordsPath returns the path to the stored CSV artifact of a run.
func (fs *FSStore) RecordsPath(id string) string {
	return filepath.Join(fs.RunDir(id), "path.csv")
}

var _ Store = (*FSStore)(nil)

// SaveRun atomically saves a run and its rows.
// Uses temp file + rename pattern to ensure atomicity.
func (fs *FSStore) SaveRun(run *Run, records []report.Record) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}
	if err := run.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(fs.RunDir(run.ID), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	if err := report.WriteFile(fs.RecordsPath(run.ID), records); err != nil {
		return fmt.Errorf("failed to write run records: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	tempPath := fs.runPath(run.ID) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp run file: %w", err)
	}

	finalPath := fs.runPath(run.ID)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename run file: %w", err)
	}

	slog.Debug("Run saved", "runID", run.ID, "path", finalPath)
	return nil
}

// LoadRun retrieves the metadata of a run.
func (fs *FSStore) LoadRun(id string) (*Run, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	path := fs.runPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{RunID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to deserialize run: %w", err)
	}

	slog.Debug("Run loaded", "runID", id, "path", path)
	return &run, nil
}

// LoadRecords retrieves the report rows of a run.
func (fs *FSStore) LoadRecords(id string) ([]report.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	path := fs.RecordsPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{RunID: id}
	}
	return report.ReadFile(path)
}

// ListRuns returns metadata for all stored runs, ordered naturally by
// display name and then by timestamp.
func (fs *FSStore) ListRuns() ([]RunInfo, error) {
	runsDir := filepath.Join(fs.baseDir, "runs")

	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return []RunInfo{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	infos := []RunInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		if _, err := os.Stat(fs.runPath(id)); os.IsNotExist(err) {
			continue // Incomplete run directory
		}

		run, err := fs.LoadRun(id)
		if err != nil {
			slog.Warn("Failed to load run for listing", "runID", id, "error", err)
			continue
		}
		infos = append(infos, run.ToInfo())
	}

	sort.SliceStable(infos, func(i, j int) bool {
		a, b := infos[i].DisplayName(), infos[j].DisplayName()
		if a != b {
			return natsort.Compare(a, b)
		}
		return infos[i].Timestamp.Before(infos[j].Timestamp)
	})

	slog.Debug("Listed runs", "count", len(infos))
	return infos, nil
}

// DisplayName returns the name, falling back to the ID.
func (ri RunInfo) DisplayName() string {
	if ri.Name != "" {
		return ri.Name
	}
	return ri.ID
}

// DeleteRun removes the run and all associated artifacts.
func (fs *FSStore) DeleteRun(id string) error {
	if id == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	runDir := fs.RunDir(id)
	if _, err := os.Stat(runDir); os.IsNotExist(err) {
		return &NotFoundError{RunID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat run directory: %w", err)
	}

	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}

	slog.Debug("Run deleted", "runID", id, "path", runDir)
	return nil
}
