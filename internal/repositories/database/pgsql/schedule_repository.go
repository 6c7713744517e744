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

type PgxScheduleRepository struct {
	BaseRepository
}

// NewScheduleRepository creates a new repository for repayment schedule data.
func NewScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryFacade {
	return &PgxScheduleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

// FindSchedulesByLoanID retrieves a loan's installments ordered by installment number.
func (r *PgxScheduleRepository) FindSchedulesByLoanID(ctx context.Context, loanID string) ([]domain.ScheduleInstallment, error) {
	query := `
		SELECT schedule_id, loan_id, installment_number, due_date, total_amount,
		       paid_amount, outstanding_amount, payment_status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM loan_schedules
		WHERE loan_id = $1
		ORDER BY installment_number;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query schedules for loan "+loanID, err)
	}
	defer rows.Close()

	installments := []models.ScheduleInstallment{}
	for rows.Next() {
		var m models.ScheduleInstallment
		err := rows.Scan(
			&m.ScheduleID,
			&m.LoanID,
			&m.InstallmentNumber,
			&m.DueDate,
			&m.TotalAmount,
			&m.PaidAmount,
			&m.OutstandingAmount,
			&m.PaymentStatus,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan schedule row for loan "+loanID, err)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating schedule rows for loan "+loanID, err)
	}

	return mapping.ToDomainInstallmentSlice(installments), nil
}

// UpdateInstallmentAmounts persists normalized amounts and payment status for one installment.
func (r *PgxScheduleRepository) UpdateInstallmentAmounts(ctx context.Context, installment domain.ScheduleInstallment) error {
	query := `
		UPDATE loan_schedules
		SET paid_amount = $2,
		    outstanding_amount = $3,
		    payment_status = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE schedule_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		installment.ScheduleID,
		installment.PaidAmount,
		installment.OutstandingAmount,
		string(installment.PaymentStatus),
		installment.LastUpdatedAt,
		installment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update installment "+installment.ScheduleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("installment " + installment.ScheduleID + " not found for update")
	}
	return nil
}
