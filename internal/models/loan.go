package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the persistence shape of a loans row.
type Loan struct {
	LoanID             string           `db:"loan_id"`
	TenantID           string           `db:"tenant_id"`
	ClientID           string           `db:"client_id"`
	ProductID          string           `db:"product_id"`
	PrincipalAmount    decimal.Decimal  `db:"principal_amount"`
	InterestRate       decimal.Decimal  `db:"interest_rate"`
	OutstandingBalance *decimal.Decimal `db:"outstanding_balance"` // Nullable on legacy rows
	Status             string           `db:"status"`
	DisbursementDate   *time.Time       `db:"disbursement_date"`
	MigrationStatus    *string          `db:"migration_status"`
	MigratedAt         *time.Time       `db:"migrated_at"`
	DaysInArrears      int              `db:"days_in_arrears"`
	AuditFields
}

// LoanProduct is the persistence shape of a loan_products row.
type LoanProduct struct {
	ProductID               string          `db:"product_id"`
	TenantID                string          `db:"tenant_id"`
	Name                    string          `db:"name"`
	MinPrincipal            decimal.Decimal `db:"min_principal"`
	MaxPrincipal            decimal.Decimal `db:"max_principal"`
	MinInterestRate         decimal.Decimal `db:"min_interest_rate"`
	MaxInterestRate         decimal.Decimal `db:"max_interest_rate"`
	MinTermMonths           int             `db:"min_term_months"`
	MaxTermMonths           int             `db:"max_term_months"`
	RepaymentFrequency      string          `db:"repayment_frequency"`
	InterestMethod          string          `db:"interest_method"`
	GracePeriodDays         int             `db:"grace_period_days"`
	AccountingType          string          `db:"accounting_type"`
	LoanPortfolioAccountID  *string         `db:"loan_portfolio_account_id"`
	FundSourceAccountID     *string         `db:"fund_source_account_id"`
	InterestIncomeAccountID *string         `db:"interest_income_account_id"`
	FeeIncomeAccountID      *string         `db:"fee_income_account_id"`
	AuditFields
}

// ScheduleInstallment is the persistence shape of a loan_schedules row.
type ScheduleInstallment struct {
	ScheduleID        string           `db:"schedule_id"`
	LoanID            string           `db:"loan_id"`
	InstallmentNumber int              `db:"installment_number"`
	DueDate           time.Time        `db:"due_date"`
	TotalAmount       decimal.Decimal  `db:"total_amount"`
	PaidAmount        *decimal.Decimal `db:"paid_amount"` // Nullable on legacy rows
	OutstandingAmount *decimal.Decimal `db:"outstanding_amount"`
	PaymentStatus     *string          `db:"payment_status"`
	AuditFields
}

// Payment is the persistence shape of a loan_payments row.
type Payment struct {
	PaymentID        string           `db:"payment_id"`
	LoanID           string           `db:"loan_id"`
	Amount           decimal.Decimal  `db:"amount"`
	PaymentDate      time.Time        `db:"payment_date"`
	Method           string           `db:"method"`
	PrincipalPortion *decimal.Decimal `db:"principal_portion"`
	InterestPortion  *decimal.Decimal `db:"interest_portion"`
	FeePortion       *decimal.Decimal `db:"fee_portion"`
	PenaltyPortion   *decimal.Decimal `db:"penalty_portion"`
	AuditFields
}
