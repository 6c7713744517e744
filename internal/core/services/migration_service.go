package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/middleware"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
	"github.com/shopspring/decimal"
)

const defaultBatchSize = 25

// migrationService drives the loan harmonization batch: sequential fixed-size
// batches, per-loan error accumulation, inter-batch delay, JSON report.
type migrationService struct {
	loanRepo     portsrepo.LoanRepositoryFacade
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	paymentRepo  portsrepo.PaymentReader
	productRepo  portsrepo.ProductReader
	schemaRepo   portsrepo.SchemaReader
	backfill     portssvc.JournalBackfillSvc
	reportWriter *report.Writer
	tolerance    decimal.Decimal
	migratedBy   string
}

// NewMigrationService creates a new MigrationSvcFacade.
func NewMigrationService(
	loanRepo portsrepo.LoanRepositoryFacade,
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	paymentRepo portsrepo.PaymentReader,
	productRepo portsrepo.ProductReader,
	schemaRepo portsrepo.SchemaReader,
	backfill portssvc.JournalBackfillSvc,
	reportWriter *report.Writer,
	tolerance decimal.Decimal,
	migratedBy string,
) portssvc.MigrationSvcFacade {
	return &migrationService{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		schemaRepo:   schemaRepo,
		backfill:     backfill,
		reportWriter: reportWriter,
		tolerance:    tolerance,
		migratedBy:   migratedBy,
	}
}

var _ portssvc.MigrationSvcFacade = (*migrationService)(nil)

// Validate checks that every table and column the migration touches exists.
func (s *migrationService) Validate(ctx context.Context) error {
	missing, err := s.schemaRepo.MissingColumns(ctx)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Run processes all loans needing migration. Per-loan failures are recorded and
// the batch continues; only an unreadable loan table aborts the run.
func (s *migrationService) Run(ctx context.Context, opts dto.RunOptions) (*dto.MigrationResults, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}

	total, err := s.loanRepo.CountLoansForMigration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans for migration: %w", err)
	}

	results := &dto.MigrationResults{
		Total:  total,
		DryRun: opts.DryRun,
		Errors: []dto.LoanError{},
	}
	logger.Info("Starting loan migration run",
		slog.Int("total", total),
		slog.Int("batch_size", opts.BatchSize),
		slog.Bool("dry_run", opts.DryRun),
	)

	products := make(map[string]domain.LoanProduct)
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		loans, err := s.loanRepo.ListLoansForMigration(ctx, afterID, opts.BatchSize)
		if err != nil {
			return results, fmt.Errorf("failed to list loans for migration: %w", err)
		}
		if len(loans) == 0 {
			break
		}

		for _, loan := range loans {
			s.processLoan(ctx, loan, products, opts.DryRun, results)
		}
		afterID = loans[len(loans)-1].LoanID

		if len(loans) < opts.BatchSize {
			break
		}

		// Inter-batch delay purely to shed load on the backing store.
		if opts.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(opts.BatchDelay):
			}
		}
	}

	rep := report.MigrationReport{
		Timestamp: time.Now().UTC(),
		Config: report.Config{
			BatchSize:        opts.BatchSize,
			BatchDelayMS:     opts.BatchDelay.Milliseconds(),
			BalanceTolerance: s.tolerance.String(),
			DryRun:           opts.DryRun,
		},
		Results: *results,
		Summary: fmt.Sprintf("%d of %d loans migrated, %d failed, %d status changes, %d journals created",
			results.Successful, results.Total, results.Failed, results.StatusChanges, results.JournalsCreated),
	}
	path, err := s.reportWriter.Write(rep)
	if err != nil {
		// The data work succeeded; a missing report file is not worth failing the run.
		logger.Error("Failed to write migration report", slog.String("error", err.Error()))
	} else {
		logger.Info("Migration report written", slog.String("path", path))
	}

	logger.Info("Loan migration run finished",
		slog.Int("successful", results.Successful),
		slog.Int("failed", results.Failed),
		slog.Int("status_changes", results.StatusChanges),
	)
	return results, nil
}

// processLoan reconciles and persists a single loan. Failures are appended to
// the results and the caller moves on to the next loan.
func (s *migrationService) processLoan(ctx context.Context, loan domain.Loan, products map[string]domain.LoanProduct, dryRun bool, results *dto.MigrationResults) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("loan_id", loan.LoanID))

	installments, payments, product, err := s.loadLoanData(ctx, loan, products)
	if err != nil {
		s.recordFailure(ctx, loan, "reconcile", err, dryRun, results)
		return
	}

	if err := domain.ValidateScheduleOrdering(installments); err != nil {
		// Broken ordering is reported but does not block harmonization.
		logger.Warn("Schedule ordering invariant violated", slog.String("error", err.Error()))
	}

	rec := Reconcile(loan, installments, payments, time.Now().UTC(), s.tolerance)
	if rec.StatusChanged {
		results.StatusChanges++
		logger.Info("Loan status change derived",
			slog.String("from", string(loan.Status)),
			slog.String("to", string(rec.DerivedStatus)),
			slog.Int("days_in_arrears", rec.DaysInArrears),
		)
	}
	if rec.StatusUnmapped {
		results.UnmappedStatuses++
		logger.Warn("Loan status not in unified vocabulary after mapping", slog.String("status", string(rec.DerivedStatus)))
	}

	now := time.Now().UTC()
	if !dryRun {
		for _, inst := range installments {
			normalized, changed := NormalizeInstallment(inst)
			if !changed {
				continue
			}
			normalized.LastUpdatedAt = now
			normalized.LastUpdatedBy = s.migratedBy
			if err := s.scheduleRepo.UpdateInstallmentAmounts(ctx, normalized); err != nil {
				s.recordFailure(ctx, loan, "schedule_update", err, dryRun, results)
				return
			}
		}
		if err := s.loanRepo.ApplyReconciliation(ctx, loan.LoanID, rec.Outstanding, rec.DerivedStatus, rec.DaysInArrears, s.migratedBy, now); err != nil {
			s.recordFailure(ctx, loan, "loan_update", err, dryRun, results)
			return
		}
	} else {
		logger.Info("Dry run: would apply reconciliation",
			slog.String("outstanding", rec.Outstanding.String()),
			slog.String("status", string(rec.DerivedStatus)),
			slog.String("source", string(rec.Source)),
		)
	}

	if product != nil {
		created, err := s.backfill.EnsureDisbursementEntry(ctx, loan, *product, dryRun)
		if err != nil {
			s.recordFailure(ctx, loan, "backfill", err, dryRun, results)
			return
		}
		if created {
			results.JournalsCreated++
		}
		n, err := s.backfill.EnsurePaymentEntries(ctx, loan, *product, payments, dryRun)
		results.JournalsCreated += n
		if err != nil {
			s.recordFailure(ctx, loan, "backfill", err, dryRun, results)
			return
		}
	}

	results.Successful++
}

// loadLoanData fetches the three reconciliation inputs plus the product,
// caching products across loans. A missing product is tolerated: the loan is
// still harmonized, only backfill is skipped.
func (s *migrationService) loadLoanData(ctx context.Context, loan domain.Loan, products map[string]domain.LoanProduct) ([]domain.ScheduleInstallment, []domain.Payment, *domain.LoanProduct, error) {
	installments, err := s.scheduleRepo.FindSchedulesByLoanID(ctx, loan.LoanID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	payments, err := s.paymentRepo.FindPaymentsByLoanID(ctx, loan.LoanID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load payments: %w", err)
	}

	if loan.ProductID == "" {
		return installments, payments, nil, nil
	}
	if cached, ok := products[loan.ProductID]; ok {
		return installments, payments, &cached, nil
	}
	product, err := s.productRepo.FindProductByID(ctx, loan.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Loan product not found, skipping journal backfill",
				slog.String("loan_id", loan.LoanID), slog.String("product_id", loan.ProductID))
			return installments, payments, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("failed to load product %s: %w", loan.ProductID, err)
	}
	products[loan.ProductID] = *product
	return installments, payments, product, nil
}

func (s *migrationService) recordFailure(ctx context.Context, loan domain.Loan, stage string, err error, dryRun bool, results *dto.MigrationResults) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Error("Loan migration failed",
		slog.String("loan_id", loan.LoanID),
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
	results.Failed++
	results.Errors = append(results.Errors, dto.LoanError{
		LoanID:  loan.LoanID,
		Stage:   stage,
		Message: err.Error(),
	})
	if dryRun {
		return
	}
	if markErr := s.loanRepo.MarkMigrationFailed(ctx, loan.LoanID, s.migratedBy, time.Now().UTC()); markErr != nil {
		logger.Error("Failed to mark loan migration as failed", slog.String("loan_id", loan.LoanID), slog.String("error", markErr.Error()))
	}
}

// PreviewLoan computes the reconciliation outcome for a single loan without
// persisting anything.
func (s *migrationService) PreviewLoan(ctx context.Context, loanID string) (*dto.LoanReconciliationResponse, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	installments, err := s.scheduleRepo.FindSchedulesByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules for loan %s: %w", loanID, err)
	}
	payments, err := s.paymentRepo.FindPaymentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for loan %s: %w", loanID, err)
	}

	rec := Reconcile(*loan, installments, payments, time.Now().UTC(), s.tolerance)

	resp := &dto.LoanReconciliationResponse{
		LoanID:            loan.LoanID,
		CurrentStatus:     loan.Status,
		StoredBalance:     loan.OutstandingBalance,
		HarmonizedBalance: rec.Outstanding,
		BalanceSource:     string(rec.Source),
		TotalPaid:         rec.TotalPaid,
		DaysInArrears:     rec.DaysInArrears,
		DerivedStatus:     rec.DerivedStatus,
		StatusChanged:     rec.StatusChanged,
		StatusUnmapped:    rec.StatusUnmapped,
		InstallmentCount:  len(installments),
		PaymentCount:      len(payments),
	}
	if err := domain.ValidateScheduleOrdering(installments); err != nil {
		resp.ScheduleViolation = err.Error()
	}
	return resp, nil
}
