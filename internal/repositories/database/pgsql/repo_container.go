package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LoanRepo:     NewLoanRepository(dbPool),
		ScheduleRepo: NewScheduleRepository(dbPool),
		PaymentRepo:  NewPaymentRepository(dbPool),
		ProductRepo:  NewProductRepository(dbPool),
		JournalRepo:  NewJournalRepository(dbPool),
		SchemaRepo:   NewSchemaRepository(dbPool),
	}
}
