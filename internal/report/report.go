package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
)

// Config is the run configuration echoed into the report for traceability.
type Config struct {
	BatchSize        int    `json:"batchSize"`
	BatchDelayMS     int64  `json:"batchDelayMs"`
	BalanceTolerance string `json:"balanceTolerance"`
	DryRun           bool   `json:"dryRun"`
}

// MigrationReport is the JSON document written after each run.
type MigrationReport struct {
	Timestamp time.Time            `json:"timestamp"`
	Config    Config               `json:"config"`
	Results   dto.MigrationResults `json:"results"`
	Summary   string               `json:"summary"`
}

// Writer persists migration reports as migration-report-<date>.json files.
type Writer struct {
	Dir string
}

// NewWriter creates a report writer targeting the given directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir}
}

// Write serializes the report to migration-report-<YYYY-MM-DD>.json and returns
// the written path. A report from the same day is overwritten.
func (w *Writer) Write(rep MigrationReport) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", w.Dir, err)
	}

	name := fmt.Sprintf("migration-report-%s.json", rep.Timestamp.Format("2006-01-02"))
	path := filepath.Join(w.Dir, name)

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal migration report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write migration report %s: %w", path, err)
	}
	return path, nil
}

// Latest reads the most recent report in the directory, by the date embedded in
// the file name. Returns apperrors.ErrNotFound when no report has been written.
func (w *Writer) Latest() (*MigrationReport, error) {
	matches, err := filepath.Glob(filepath.Join(w.Dir, "migration-report-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migration reports in %s: %w", w.Dir, err)
	}
	if len(matches) == 0 {
		return nil, apperrors.ErrNotFound
	}

	// Date-stamped names sort chronologically.
	sort.Strings(matches)
	path := matches[len(matches)-1]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration report %s: %w", path, err)
	}
	var rep MigrationReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse migration report %s: %w", path, err)
	}
	return &rep, nil
}
