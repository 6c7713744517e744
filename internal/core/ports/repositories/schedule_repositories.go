package repositories

import (
	"context"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
)

// ScheduleReader defines read operations for repayment schedule data
type ScheduleReader interface {
	// FindSchedulesByLoanID retrieves a loan's installments ordered by installment number.
	FindSchedulesByLoanID(ctx context.Context, loanID string) ([]domain.ScheduleInstallment, error)
}

// ScheduleWriter defines write operations for repayment schedule data
type ScheduleWriter interface {
	// UpdateInstallmentAmounts persists normalized paid/outstanding amounts and
	// payment status for one installment.
	UpdateInstallmentAmounts(ctx context.Context, installment domain.ScheduleInstallment) error
}

// ScheduleRepositoryFacade combines all schedule-related repository interfaces
type ScheduleRepositoryFacade interface {
	ScheduleReader
	ScheduleWriter
}
