package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the repayment state of a single installment.
type PaymentStatus string

const (
	InstallmentPaid    PaymentStatus = "paid"
	InstallmentPartial PaymentStatus = "partial"
	InstallmentUnpaid  PaymentStatus = "unpaid"
)

// ScheduleInstallment is one row of a loan's repayment schedule.
// Installment numbers are contiguous per loan and due dates non-decreasing.
type ScheduleInstallment struct {
	ScheduleID        string           `json:"scheduleID"` // Primary Key (UUID)
	LoanID            string           `json:"loanID"`     // FK -> loans.loan_id
	InstallmentNumber int              `json:"installmentNumber"`
	DueDate           time.Time        `json:"dueDate"`
	TotalAmount       decimal.Decimal  `json:"totalAmount"`
	PaidAmount        decimal.Decimal  `json:"paidAmount"`
	OutstandingAmount *decimal.Decimal `json:"outstandingAmount"` // Nil means derive from total - paid
	PaymentStatus     PaymentStatus    `json:"paymentStatus"`
	AuditFields
}

// Outstanding returns the remaining amount on this installment, deriving it from
// total minus paid when the stored figure is absent. Never negative.
func (s ScheduleInstallment) Outstanding() decimal.Decimal {
	var out decimal.Decimal
	if s.OutstandingAmount != nil {
		out = *s.OutstandingAmount
	} else {
		out = s.TotalAmount.Sub(s.PaidAmount)
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// ValidateScheduleOrdering checks the per-loan schedule invariants: contiguous
// installment numbers starting at 1 and non-decreasing due dates. The slice must
// already be sorted by installment number.
func ValidateScheduleOrdering(installments []ScheduleInstallment) error {
	for i, inst := range installments {
		if inst.InstallmentNumber != i+1 {
			return fmt.Errorf("installment numbers not contiguous: position %d has number %d", i+1, inst.InstallmentNumber)
		}
		if i > 0 && inst.DueDate.Before(installments[i-1].DueDate) {
			return fmt.Errorf("due date of installment %d precedes installment %d", inst.InstallmentNumber, installments[i-1].InstallmentNumber)
		}
	}
	return nil
}
