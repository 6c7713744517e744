package services

import (
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSource names which of the three sources of truth produced the
// harmonized outstanding balance.
type BalanceSource string

const (
	SourceStored   BalanceSource = "stored_balance"
	SourceSchedule BalanceSource = "schedule"
	SourcePayments BalanceSource = "payments"
)

// DefaultBalanceTolerance is the deviation, in currency units, beyond which the
// payment-derived balance overrides the running figure.
var DefaultBalanceTolerance = decimal.NewFromInt(1)

// Reconciliation is the derived outcome for one loan. It is computed, never stored.
type Reconciliation struct {
	Outstanding   decimal.Decimal   `json:"outstanding"`
	TotalPaid     decimal.Decimal   `json:"totalPaid"`
	DaysInArrears int               `json:"daysInArrears"`
	DerivedStatus domain.LoanStatus `json:"derivedStatus"`
	Source        BalanceSource     `json:"source"`
	StatusChanged bool              `json:"statusChanged"`
	// StatusUnmapped is set when the final status is outside the unified
	// vocabulary, i.e. a legacy status passed through the mapping table.
	StatusUnmapped bool `json:"statusUnmapped"`
}

// Reconcile harmonizes a loan's outstanding balance and delinquency status from
// its stored balance, repayment schedule, and payment history. It is a pure
// function of its inputs: calling it twice yields the same result and nothing
// is written anywhere.
//
// Precedence: a positive unpaid-installment sum overrides the stored balance;
// the payment-derived figure overrides both when it deviates from the running
// figure by more than the tolerance. The result is clamped at zero.
func Reconcile(loan domain.Loan, installments []domain.ScheduleInstallment, payments []domain.Payment, now time.Time, tolerance decimal.Decimal) Reconciliation {
	outstanding := loan.OutstandingBalance
	source := SourceStored

	// Schedule data beats the stored field whenever it yields a positive figure.
	if len(installments) > 0 {
		scheduleOutstanding := decimal.Zero
		for _, inst := range installments {
			if inst.PaymentStatus == domain.InstallmentPaid {
				continue
			}
			scheduleOutstanding = scheduleOutstanding.Add(inst.Outstanding())
		}
		if scheduleOutstanding.IsPositive() {
			outstanding = scheduleOutstanding
			source = SourceSchedule
		}
	}

	// Payment history is most authoritative when it disagrees materially.
	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Amount)
	}
	if len(payments) > 0 {
		paymentBased := loan.PrincipalAmount.Sub(totalPaid)
		if paymentBased.IsNegative() {
			paymentBased = decimal.Zero
		}
		if paymentBased.Sub(outstanding).Abs().GreaterThan(tolerance) {
			outstanding = paymentBased
			source = SourcePayments
		}
	}

	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	daysInArrears := daysInArrears(installments, now)

	derived := deriveStatus(loan.Status, outstanding, totalPaid, daysInArrears)
	mapped, _ := domain.MapLegacyStatus(derived)

	return Reconciliation{
		Outstanding:    outstanding,
		TotalPaid:      totalPaid,
		DaysInArrears:  daysInArrears,
		DerivedStatus:  mapped,
		Source:         source,
		StatusChanged:  mapped != loan.Status,
		StatusUnmapped: !domain.IsUnifiedStatus(mapped),
	}
}

// daysInArrears returns whole days elapsed since the earliest overdue unpaid
// installment's due date, or 0 when nothing is overdue.
func daysInArrears(installments []domain.ScheduleInstallment, now time.Time) int {
	var earliest *time.Time
	for i := range installments {
		inst := installments[i]
		if inst.PaymentStatus == domain.InstallmentPaid {
			continue
		}
		if !inst.DueDate.Before(now) {
			continue
		}
		if earliest == nil || inst.DueDate.Before(*earliest) {
			earliest = &inst.DueDate
		}
	}
	if earliest == nil {
		return 0
	}
	return int(now.Sub(*earliest).Hours() / 24)
}

// NormalizeInstallment fills an installment's derived fields: an absent
// outstanding amount becomes total minus paid, and the payment status is
// recomputed from the amounts. Returns the normalized row and whether anything
// changed.
func NormalizeInstallment(inst domain.ScheduleInstallment) (domain.ScheduleInstallment, bool) {
	outstanding := inst.Outstanding()

	status := domain.InstallmentUnpaid
	switch {
	case inst.TotalAmount.IsPositive() && inst.PaidAmount.GreaterThanOrEqual(inst.TotalAmount):
		status = domain.InstallmentPaid
	case inst.PaidAmount.IsPositive():
		status = domain.InstallmentPartial
	}

	changed := inst.PaymentStatus != status ||
		inst.OutstandingAmount == nil ||
		!inst.OutstandingAmount.Equal(outstanding)

	inst.OutstandingAmount = &outstanding
	inst.PaymentStatus = status
	return inst, changed
}

// deriveStatus applies the delinquency rules in priority order; first match wins.
func deriveStatus(current domain.LoanStatus, outstanding, totalPaid decimal.Decimal, days int) domain.LoanStatus {
	switch {
	case !outstanding.IsPositive() && totalPaid.IsPositive():
		return domain.StatusClosed
	case days > 30:
		return domain.StatusInArrears
	case days > 0:
		return domain.StatusOverdue
	case current == domain.StatusPending || current == domain.StatusApproved:
		return domain.StatusPendingDisbursement
	default:
		return current
	}
}
