package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/middleware"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
)

// migrationHandler handles HTTP requests related to the migration run.
type migrationHandler struct {
	migrationService portssvc.MigrationSvcFacade
	reportWriter     *report.Writer
	runDefaults      dto.RunOptions
}

// newMigrationHandler creates a new migrationHandler.
func newMigrationHandler(migrationService portssvc.MigrationSvcFacade, reportWriter *report.Writer, runDefaults dto.RunOptions) *migrationHandler {
	return &migrationHandler{
		migrationService: migrationService,
		reportWriter:     reportWriter,
		runDefaults:      runDefaults,
	}
}

// previewLoanReconciliation computes the reconciliation outcome for a single
// loan without writing anything.
func (h *migrationHandler) previewLoanReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	preview, err := h.migrationService.PreviewLoan(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Loan not found", slog.String("loan_id", loanID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		logger.Error("Failed to preview loan reconciliation", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview loan reconciliation"})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// runMigration triggers a full migration run.
func (h *migrationHandler) runMigration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RunMigrationRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for RunMigration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	opts := h.runDefaults
	opts.DryRun = req.DryRun
	if req.BatchSize != nil {
		opts.BatchSize = *req.BatchSize
	}

	results, err := h.migrationService.Run(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Migration run rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Migration run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Migration run failed"})
		return
	}

	logger.Info("Migration run completed",
		slog.Int("total", results.Total),
		slog.Int("successful", results.Successful),
		slog.Int("failed", results.Failed),
		slog.Bool("dry_run", results.DryRun),
	)
	c.JSON(http.StatusOK, results)
}

// latestReport returns the most recent migration report on disk.
func (h *migrationHandler) latestReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rep, err := h.reportWriter.Latest()
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No migration report found"})
			return
		}
		logger.Error("Failed to read migration report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read migration report"})
		return
	}

	c.JSON(http.StatusOK, rep)
}
