package repositories

import (
	"context"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
)

// PaymentReader defines read operations for payment data. Payments are
// append-only; there is deliberately no writer interface here.
type PaymentReader interface {
	// FindPaymentsByLoanID retrieves a loan's payments ordered by payment date.
	FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error)
}

// ProductReader defines read operations for loan product data
type ProductReader interface {
	// FindProductByID retrieves a specific loan product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.LoanProduct, error)
}
