package domain

import "github.com/shopspring/decimal"

// AccountingType controls whether journal entries are produced for a product's loans.
type AccountingType string

const (
	AccountingNone    AccountingType = "none"
	AccountingCash    AccountingType = "cash"
	AccountingAccrual AccountingType = "accrual"
)

// LoanProduct holds the static terms a loan is issued under, plus the chart-of-accounts
// mapping used when synthesizing journal entries. Products are treated as an immutable
// snapshot at reconciliation time.
type LoanProduct struct {
	ProductID          string          `json:"productID"` // Primary Key (UUID)
	TenantID           string          `json:"tenantID"`
	Name               string          `json:"name"`
	MinPrincipal       decimal.Decimal `json:"minPrincipal"`
	MaxPrincipal       decimal.Decimal `json:"maxPrincipal"`
	MinInterestRate    decimal.Decimal `json:"minInterestRate"`
	MaxInterestRate    decimal.Decimal `json:"maxInterestRate"`
	MinTermMonths      int             `json:"minTermMonths"`
	MaxTermMonths      int             `json:"maxTermMonths"`
	RepaymentFrequency string          `json:"repaymentFrequency"` // weekly, monthly, ...
	InterestMethod     string          `json:"interestMethod"`     // flat, declining_balance
	GracePeriodDays    int             `json:"gracePeriodDays"`
	AccountingType     AccountingType  `json:"accountingType"`

	// Account mapping. Portfolio and fund source are required for any product
	// with accounting enabled; income accounts are optional.
	LoanPortfolioAccountID  string  `json:"loanPortfolioAccountID"`
	FundSourceAccountID     string  `json:"fundSourceAccountID"`
	InterestIncomeAccountID *string `json:"interestIncomeAccountID"`
	FeeIncomeAccountID      *string `json:"feeIncomeAccountID"`
	AuditFields
}

// HasAccounting reports whether loans under this product should carry journal entries.
func (p LoanProduct) HasAccounting() bool {
	return p.AccountingType != AccountingNone && p.AccountingType != ""
}
