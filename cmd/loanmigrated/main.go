package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/handlers"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/middleware"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/platform/config"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/repositories/database/pgsql"
	"github.com/loanspur/loanspur-nexus-finance-sub004/migrations"
	"github.com/loanspur/loanspur-nexus-finance-sub004/pkg/database"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const usage = `Usage: loanmigrated <command>

Commands:
  validate   Check that the target schema has every required table and column
  dry-run    Compute and report all intended changes without writing anything
  migrate    Run the full migration, batch by batch
  serve      Start the HTTP API for previews, runs and reports
`

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, logger, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(logger, dbPool)

	switch command {
	case "validate":
		runValidate(ctx, logger, cfg, dbPool)
	case "dry-run":
		runMigration(ctx, logger, cfg, dbPool, true)
	case "migrate":
		applySchemaMigrations(logger, cfg)
		runMigration(ctx, logger, cfg, dbPool, false)
	case "serve":
		applySchemaMigrations(logger, cfg)
		runServer(logger, cfg, dbPool)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}
}

// applySchemaMigrations brings the target database up to the bundled schema
// version. It opens a temporary stdlib connection compatible with the pgx pool.
func applySchemaMigrations(logger *slog.Logger, cfg *config.Config) {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("Could not load embedded migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		os.Exit(1)
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}

func buildMigrationService(cfg *config.Config, dbPool *pgxpool.Pool) portssvc.MigrationSvcFacade {
	repos := pgsql.NewRepositoryProvider(dbPool)
	backfill := services.NewJournalBackfillService(repos.JournalRepo, cfg.MigratedBy)
	return services.NewMigrationService(
		repos.LoanRepo,
		repos.ScheduleRepo,
		repos.PaymentRepo,
		repos.ProductRepo,
		repos.SchemaRepo,
		backfill,
		report.NewWriter(cfg.ReportDir),
		cfg.BalanceTolerance,
		cfg.MigratedBy,
	)
}

func runValidate(ctx context.Context, logger *slog.Logger, cfg *config.Config, dbPool *pgxpool.Pool) {
	migrationService := buildMigrationService(cfg, dbPool)

	if err := migrationService.Validate(ctx); err != nil {
		logger.Error("Schema validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Schema validation passed.")
}

func runMigration(ctx context.Context, logger *slog.Logger, cfg *config.Config, dbPool *pgxpool.Pool, dryRun bool) {
	ctx = middleware.ContextWithLogger(ctx, logger)
	migrationService := buildMigrationService(cfg, dbPool)

	// A migration run against a half-prepared schema fails loan by loan.
	// Check the schema up front and fail fast instead.
	if err := migrationService.Validate(ctx); err != nil {
		logger.Error("Schema validation failed, not starting run", slog.String("error", err.Error()))
		os.Exit(1)
	}

	results, err := migrationService.Run(ctx, dto.RunOptions{
		DryRun:     dryRun,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
	})
	if err != nil {
		logger.Error("Migration run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Migration run completed",
		slog.Int("total", results.Total),
		slog.Int("successful", results.Successful),
		slog.Int("failed", results.Failed),
		slog.Int("status_changes", results.StatusChanges),
		slog.Int("journals_created", results.JournalsCreated),
		slog.Bool("dry_run", results.DryRun),
	)
	if results.Failed > 0 {
		os.Exit(1)
	}
}

func runServer(logger *slog.Logger, cfg *config.Config, dbPool *pgxpool.Pool) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, _ := limiter.NewRateFromFormatted("60-M")
	store := memory.NewStore()
	r.Use(middleware.RateLimit(limiter.New(store, rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	migrationService := buildMigrationService(cfg, dbPool)
	handlers.RegisterRoutes(r, cfg, migrationService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
