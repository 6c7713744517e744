package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a repayment against a loan. Payments are append-only: reconciliation
// reads them but never mutates a payment row.
type Payment struct {
	PaymentID   string          `json:"paymentID"` // Primary Key (UUID)
	LoanID      string          `json:"loanID"`    // FK -> loans.loan_id
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Method      string          `json:"method"` // cash, mpesa, bank_transfer, ...

	// Optional allocation breakdown. Nil portions count as zero; when every
	// portion is nil the whole amount is treated as principal.
	PrincipalPortion *decimal.Decimal `json:"principalPortion"`
	InterestPortion  *decimal.Decimal `json:"interestPortion"`
	FeePortion       *decimal.Decimal `json:"feePortion"`
	PenaltyPortion   *decimal.Decimal `json:"penaltyPortion"`
	AuditFields
}

// Allocation is a payment's breakdown with defaulting rules applied.
type Allocation struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Fee       decimal.Decimal
	Penalty   decimal.Decimal
}

// Allocate resolves the payment's component amounts. A payment with no breakdown
// at all allocates its full amount to principal.
func (p Payment) Allocate() Allocation {
	if p.PrincipalPortion == nil && p.InterestPortion == nil && p.FeePortion == nil && p.PenaltyPortion == nil {
		return Allocation{Principal: nonNegative(p.Amount)}
	}
	return Allocation{
		Principal: portionOrZero(p.PrincipalPortion),
		Interest:  portionOrZero(p.InterestPortion),
		Fee:       portionOrZero(p.FeePortion),
		Penalty:   portionOrZero(p.PenaltyPortion),
	}
}

func portionOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return nonNegative(*d)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
