package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Header is the column layout of a path artifact.
var Header = []string{"step", "value", "error"}

// Encode writes records as CSV with a header row.
func Encode(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Step),
			strconv.FormatFloat(r.Value, 'g', -1, 64),
			strconv.FormatFloat(r.Error, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.Step, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories. The file is
// written to a temporary name and renamed into place, so a failed write never
// leaves a partial artifact behind.
func WriteFile(path string, records []Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := Encode(bw, records); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to flush artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename artifact: %w", err)
	}

	slog.Debug("Artifact written", "path", path, "rows", len(records))
	return nil
}

// Decode reads records from CSV, locating columns by header name.
func Decode(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	stepCol, ok := cols["step"]
	if !ok {
		return nil, fmt.Errorf("missing column %q", "step")
	}
	errCol, ok := cols["error"]
	if !ok {
		return nil, fmt.Errorf("missing column %q", "error")
	}
	valueCol, hasValue := cols["value"]

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var rec Record
		if rec.Step, err = strconv.Atoi(row[stepCol]); err != nil {
			return nil, fmt.Errorf("line %d: invalid step: %w", line, err)
		}
		if rec.Error, err = strconv.ParseFloat(row[errCol], 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid error: %w", line, err)
		}
		if hasValue {
			if rec.Value, err = strconv.ParseFloat(row[valueCol], 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid value: %w", line, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile reads a path artifact from disk.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
