package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// NewPaymentRepository creates a new read-only repository for payment data.
// Payments are append-only; the migration never writes them.
func NewPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentReader {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentReader = (*PgxPaymentRepository)(nil)

// FindPaymentsByLoanID retrieves a loan's payments ordered by payment date.
func (r *PgxPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, loan_id, amount, payment_date, method,
		       principal_portion, interest_portion, fee_portion, penalty_portion,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY payment_date, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for loan "+loanID, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var m models.Payment
		err := rows.Scan(
			&m.PaymentID,
			&m.LoanID,
			&m.Amount,
			&m.PaymentDate,
			&m.Method,
			&m.PrincipalPortion,
			&m.InterestPortion,
			&m.FeePortion,
			&m.PenaltyPortion,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for loan "+loanID, err)
		}
		payments = append(payments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for loan "+loanID, err)
	}

	return mapping.ToDomainPaymentSlice(payments), nil
}
