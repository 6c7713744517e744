package dto

import (
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RunOptions parameterizes one migration run. It is an explicit value handed to
// the batch driver, not shared mutable state.
type RunOptions struct {
	DryRun     bool
	BatchSize  int
	BatchDelay time.Duration
}

// LoanError records a single per-loan failure. The batch continues past these.
type LoanError struct {
	LoanID  string `json:"loanID"`
	Stage   string `json:"stage"` // reconcile, schedule_update, loan_update, backfill
	Message string `json:"message"`
}

// MigrationResults accumulates the outcome of a run.
type MigrationResults struct {
	Total            int         `json:"total"`
	Successful       int         `json:"successful"`
	Failed           int         `json:"failed"`
	StatusChanges    int         `json:"statusChanges"`
	UnmappedStatuses int         `json:"unmappedStatuses"`
	JournalsCreated  int         `json:"journalsCreated"`
	DryRun           bool        `json:"dryRun"`
	Errors           []LoanError `json:"errors"`
}

// RunMigrationRequest is the HTTP body for triggering a run. BatchSize, when
// present, overrides the configured batch size for this run only.
type RunMigrationRequest struct {
	DryRun    bool `json:"dryRun"`
	BatchSize *int `json:"batchSize" binding:"omitempty,min=1,max=1000"`
}

// LoanReconciliationResponse is the dry-run preview for a single loan.
type LoanReconciliationResponse struct {
	LoanID             string            `json:"loanID"`
	CurrentStatus      domain.LoanStatus `json:"currentStatus"`
	StoredBalance      decimal.Decimal   `json:"storedBalance"`
	HarmonizedBalance  decimal.Decimal   `json:"harmonizedBalance"`
	BalanceSource      string            `json:"balanceSource"`
	TotalPaid          decimal.Decimal   `json:"totalPaid"`
	DaysInArrears      int               `json:"daysInArrears"`
	DerivedStatus      domain.LoanStatus `json:"derivedStatus"`
	StatusChanged      bool              `json:"statusChanged"`
	StatusUnmapped     bool              `json:"statusUnmapped"`
	InstallmentCount   int               `json:"installmentCount"`
	PaymentCount       int               `json:"paymentCount"`
	ScheduleViolation  string            `json:"scheduleViolation,omitempty"`
}
