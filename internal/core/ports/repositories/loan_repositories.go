package repositories

import (
	"context"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its unique identifier.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansForMigration retrieves the next batch of loans whose
	// migration_status is NULL or 'pending', keyset-paginated by loan ID.
	ListLoansForMigration(ctx context.Context, afterLoanID string, limit int) ([]domain.Loan, error)

	// CountLoansForMigration returns how many loans still need migration.
	CountLoansForMigration(ctx context.Context) (int, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// ApplyReconciliation persists the harmonized balance, derived status,
	// days in arrears, and migration tracking fields for one loan.
	ApplyReconciliation(ctx context.Context, loanID string, outstanding decimal.Decimal, status domain.LoanStatus, daysInArrears int, updatedBy string, now time.Time) error

	// MarkMigrationFailed records a per-loan failure without touching balances.
	MarkMigrationFailed(ctx context.Context, loanID string, updatedBy string, now time.Time) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
