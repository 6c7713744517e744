package services

import (
	"context"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
)

// MigrationValidator defines the schema validation operation used by the
// validate subcommand.
type MigrationValidator interface {
	// Validate checks that the required tables and columns exist.
	Validate(ctx context.Context) error
}

// MigrationRunner defines the batch operations of the migration driver.
type MigrationRunner interface {
	// Run processes every loan needing migration in sequential batches and
	// returns the accumulated results. With opts.DryRun set it computes and
	// logs intended changes without persisting anything.
	Run(ctx context.Context, opts dto.RunOptions) (*dto.MigrationResults, error)

	// PreviewLoan computes the reconciliation outcome for one loan without writing.
	PreviewLoan(ctx context.Context, loanID string) (*dto.LoanReconciliationResponse, error)
}

// MigrationSvcFacade combines all migration service interfaces
type MigrationSvcFacade interface {
	MigrationValidator
	MigrationRunner
}

// JournalBackfillSvc synthesizes missing double-entry records for historical loans.
type JournalBackfillSvc interface {
	// EnsureDisbursementEntry creates the disbursement journal for a loan if absent.
	// Returns whether an entry was (or in dry-run, would be) created.
	EnsureDisbursementEntry(ctx context.Context, loan domain.Loan, product domain.LoanProduct, dryRun bool) (bool, error)

	// EnsurePaymentEntries creates a journal for each payment lacking one.
	// Returns how many entries were (or would be) created.
	EnsurePaymentEntries(ctx context.Context, loan domain.Loan, product domain.LoanProduct, payments []domain.Payment, dryRun bool) (int, error)
}
