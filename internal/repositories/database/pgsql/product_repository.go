package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/utils/mapping"
)

type PgxProductRepository struct {
	BaseRepository
}

// NewProductRepository creates a new read-only repository for loan product data.
func NewProductRepository(pool *pgxpool.Pool) portsrepo.ProductReader {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductReader = (*PgxProductRepository)(nil)

// FindProductByID retrieves a loan product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.LoanProduct, error) {
	query := `
		SELECT product_id, tenant_id, name, min_principal, max_principal,
		       min_interest_rate, max_interest_rate, min_term_months, max_term_months,
		       repayment_frequency, interest_method, grace_period_days, accounting_type,
		       loan_portfolio_account_id, fund_source_account_id,
		       interest_income_account_id, fee_income_account_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM loan_products
		WHERE product_id = $1;
	`
	var m models.LoanProduct
	err := r.Pool.QueryRow(ctx, query, productID).Scan(
		&m.ProductID,
		&m.TenantID,
		&m.Name,
		&m.MinPrincipal,
		&m.MaxPrincipal,
		&m.MinInterestRate,
		&m.MaxInterestRate,
		&m.MinTermMonths,
		&m.MaxTermMonths,
		&m.RepaymentFrequency,
		&m.InterestMethod,
		&m.GracePeriodDays,
		&m.AccountingType,
		&m.LoanPortfolioAccountID,
		&m.FundSourceAccountID,
		&m.InterestIncomeAccountID,
		&m.FeeIncomeAccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find product by ID "+productID, err)
	}

	product := mapping.ToDomainProduct(m)
	return &product, nil
}
