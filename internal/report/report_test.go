package report_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(day time.Time) report.MigrationReport {
	return report.MigrationReport{
		Timestamp: day,
		Config: report.Config{
			BatchSize:        25,
			BalanceTolerance: "1",
		},
		Results: dto.MigrationResults{
			Total:      10,
			Successful: 9,
			Failed:     1,
			Errors: []dto.LoanError{
				{LoanID: "loan-7", Stage: "backfill", Message: "product account mapping is incomplete"},
			},
		},
		Summary: "9 of 10 loans migrated, 1 failed, 0 status changes, 0 journals created",
	}
}

func TestWriter_WriteAndLatest(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir)

	day := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	path, err := w.Write(sampleReport(day))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "migration-report-2025-06-15.json"), path)

	got, err := w.Latest()
	require.NoError(t, err)
	assert.Equal(t, 9, got.Results.Successful)
	assert.Equal(t, 1, got.Results.Failed)
	require.Len(t, got.Results.Errors, 1)
	assert.Equal(t, "loan-7", got.Results.Errors[0].LoanID)
}

func TestWriter_LatestPicksNewestDate(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir)

	_, err := w.Write(sampleReport(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	newer := sampleReport(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	newer.Summary = "newer run"
	_, err = w.Write(newer)
	require.NoError(t, err)

	got, err := w.Latest()
	require.NoError(t, err)
	assert.Equal(t, "newer run", got.Summary)
}

func TestWriter_LatestWithoutReports(t *testing.T) {
	w := report.NewWriter(t.TempDir())

	_, err := w.Latest()
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestWriter_SameDayOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir)

	day := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	_, err := w.Write(sampleReport(day))
	require.NoError(t, err)

	second := sampleReport(day.Add(4 * time.Hour))
	second.Summary = "second run"
	_, err = w.Write(second)
	require.NoError(t, err)

	got, err := w.Latest()
	require.NoError(t, err)
	assert.Equal(t, "second run", got.Summary)
}
