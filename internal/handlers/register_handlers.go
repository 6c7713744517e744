package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/platform/config"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	migrationService portssvc.MigrationSvcFacade,
) {
	// Add health check route
	r.GET("/healthz", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, migrationService)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the migration handler
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	migrationService portssvc.MigrationSvcFacade,
) {
	v1 := r.Group("/api/v1")

	h := newMigrationHandler(migrationService, report.NewWriter(cfg.ReportDir), dto.RunOptions{
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
	})

	v1.GET("/loans/:loanID/reconciliation", h.previewLoanReconciliation)

	migration := v1.Group("/migration")
	migration.POST("/run", h.runMigration)
	migration.GET("/report", h.latestReport)
}
