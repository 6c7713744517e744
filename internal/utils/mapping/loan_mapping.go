package mapping

import (
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainLoan converts a model Loan to a domain Loan, applying the documented
// defaulting rules: a NULL stored balance counts as zero.
func ToDomainLoan(m models.Loan) domain.Loan {
	outstanding := decimal.Zero
	if m.OutstandingBalance != nil {
		outstanding = *m.OutstandingBalance
	}
	migrationStatus := ""
	if m.MigrationStatus != nil {
		migrationStatus = *m.MigrationStatus
	}
	return domain.Loan{
		LoanID:             m.LoanID,
		TenantID:           m.TenantID,
		ClientID:           m.ClientID,
		ProductID:          m.ProductID,
		PrincipalAmount:    m.PrincipalAmount,
		InterestRate:       m.InterestRate,
		OutstandingBalance: outstanding,
		Status:             domain.LoanStatus(m.Status),
		DisbursementDate:   m.DisbursementDate,
		MigrationStatus:    migrationStatus,
		MigratedAt:         m.MigratedAt,
		DaysInArrears:      m.DaysInArrears,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProduct converts a model LoanProduct to a domain LoanProduct. Missing
// accounting accounts map to empty strings, which the backfill treats as an
// incomplete mapping.
func ToDomainProduct(m models.LoanProduct) domain.LoanProduct {
	portfolio := ""
	if m.LoanPortfolioAccountID != nil {
		portfolio = *m.LoanPortfolioAccountID
	}
	fundSource := ""
	if m.FundSourceAccountID != nil {
		fundSource = *m.FundSourceAccountID
	}
	return domain.LoanProduct{
		ProductID:               m.ProductID,
		TenantID:                m.TenantID,
		Name:                    m.Name,
		MinPrincipal:            m.MinPrincipal,
		MaxPrincipal:            m.MaxPrincipal,
		MinInterestRate:         m.MinInterestRate,
		MaxInterestRate:         m.MaxInterestRate,
		MinTermMonths:           m.MinTermMonths,
		MaxTermMonths:           m.MaxTermMonths,
		RepaymentFrequency:      m.RepaymentFrequency,
		InterestMethod:          m.InterestMethod,
		GracePeriodDays:         m.GracePeriodDays,
		AccountingType:          domain.AccountingType(m.AccountingType),
		LoanPortfolioAccountID:  portfolio,
		FundSourceAccountID:     fundSource,
		InterestIncomeAccountID: m.InterestIncomeAccountID,
		FeeIncomeAccountID:      m.FeeIncomeAccountID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallment converts a model ScheduleInstallment to the domain shape.
// NULL paid amounts count as zero; a NULL payment status counts as unpaid.
func ToDomainInstallment(m models.ScheduleInstallment) domain.ScheduleInstallment {
	paid := decimal.Zero
	if m.PaidAmount != nil {
		paid = *m.PaidAmount
	}
	status := domain.InstallmentUnpaid
	if m.PaymentStatus != nil && *m.PaymentStatus != "" {
		status = domain.PaymentStatus(*m.PaymentStatus)
	}
	return domain.ScheduleInstallment{
		ScheduleID:        m.ScheduleID,
		LoanID:            m.LoanID,
		InstallmentNumber: m.InstallmentNumber,
		DueDate:           m.DueDate,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        paid,
		OutstandingAmount: m.OutstandingAmount,
		PaymentStatus:     status,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to the domain shape.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:        m.PaymentID,
		LoanID:           m.LoanID,
		Amount:           m.Amount,
		PaymentDate:      m.PaymentDate,
		Method:           m.Method,
		PrincipalPortion: m.PrincipalPortion,
		InterestPortion:  m.InterestPortion,
		FeePortion:       m.FeePortion,
		PenaltyPortion:   m.PenaltyPortion,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to domain Payments.
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

// ToDomainInstallmentSlice converts a slice of model installments to domain installments.
func ToDomainInstallmentSlice(ms []models.ScheduleInstallment) []domain.ScheduleInstallment {
	ds := make([]domain.ScheduleInstallment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}
