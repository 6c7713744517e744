package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const loanColumns = `
	loan_id, tenant_id, client_id, product_id, principal_amount, interest_rate,
	outstanding_balance, status, disbursement_date, migration_status, migrated_at,
	days_in_arrears, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// NewLoanRepository creates a new repository for loan data.
func NewLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}

	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

// ListLoansForMigration retrieves the next batch of unmigrated loans, keyset
// paginated by loan_id for a stable walk across batches.
func (r *PgxLoanRepository) ListLoansForMigration(ctx context.Context, afterLoanID string, limit int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 25
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE (migration_status IS NULL OR migration_status = 'pending')
		  AND loan_id > $1
		ORDER BY loan_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, afterLoanID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query loans for migration", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan row", err)
		}
		loans = append(loans, mapping.ToDomainLoan(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan rows", err)
	}
	return loans, nil
}

// CountLoansForMigration returns how many loans still need migration.
func (r *PgxLoanRepository) CountLoansForMigration(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM loans WHERE migration_status IS NULL OR migration_status = 'pending';`
	var count int
	if err := r.Pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count loans for migration", err)
	}
	return count, nil
}

// ApplyReconciliation persists the harmonized figures and marks the loan migrated.
func (r *PgxLoanRepository) ApplyReconciliation(ctx context.Context, loanID string, outstanding decimal.Decimal, status domain.LoanStatus, daysInArrears int, updatedBy string, now time.Time) error {
	query := `
		UPDATE loans
		SET outstanding_balance = $2,
		    status = $3,
		    days_in_arrears = $4,
		    migration_status = 'migrated',
		    migrated_at = $5,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE loan_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, loanID, outstanding, string(status), daysInArrears, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply reconciliation to loan "+loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("loan " + loanID + " not found for reconciliation update")
	}
	return nil
}

// MarkMigrationFailed records a per-loan failure without touching balances.
func (r *PgxLoanRepository) MarkMigrationFailed(ctx context.Context, loanID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE loans
		SET migration_status = 'failed',
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE loan_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, loanID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark migration failed for loan "+loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("loan " + loanID + " not found for failure update")
	}
	return nil
}

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.TenantID,
		&m.ClientID,
		&m.ProductID,
		&m.PrincipalAmount,
		&m.InterestRate,
		&m.OutstandingBalance,
		&m.Status,
		&m.DisbursementDate,
		&m.MigrationStatus,
		&m.MigratedAt,
		&m.DaysInArrears,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
