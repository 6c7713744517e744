package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the unified status vocabulary for loans.
// Legacy rows may carry statuses outside this set; see MapLegacyStatus.
type LoanStatus string

const (
	StatusPendingDisbursement LoanStatus = "pending_disbursement"
	StatusActive              LoanStatus = "active"
	StatusOverdue             LoanStatus = "overdue"
	StatusInArrears           LoanStatus = "in_arrears"
	StatusClosed              LoanStatus = "closed"
	StatusWrittenOff          LoanStatus = "written_off"
	StatusDefaulted           LoanStatus = "defaulted"

	// Legacy statuses still present on unmigrated rows.
	StatusPending   LoanStatus = "pending"
	StatusApproved  LoanStatus = "approved"
	StatusDisbursed LoanStatus = "disbursed"
)

// MigrationStatus values tracked on the loans table.
const (
	MigrationPending  = "pending"
	MigrationMigrated = "migrated"
	MigrationFailed   = "failed"
)

// Loan is a disbursed or pending loan account. Loans are never destroyed;
// terminal states are expressed through Status.
type Loan struct {
	LoanID             string          `json:"loanID"`   // Primary Key (UUID)
	TenantID           string          `json:"tenantID"` // FK -> tenants.tenant_id
	ClientID           string          `json:"clientID"` // FK -> clients.client_id
	ProductID          string          `json:"productID"`
	PrincipalAmount    decimal.Decimal `json:"principalAmount"`
	InterestRate       decimal.Decimal `json:"interestRate"` // Annual, percent
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	Status             LoanStatus      `json:"status"`
	DisbursementDate   *time.Time      `json:"disbursementDate"` // Nil until disbursed
	MigrationStatus    string          `json:"migrationStatus"`  // "", pending, migrated, failed
	MigratedAt         *time.Time      `json:"migratedAt"`
	DaysInArrears      int             `json:"daysInArrears"`
	AuditFields
}

// legacyStatusMap translates statuses from the pre-migration system to the
// unified vocabulary. Statuses absent from the table pass through unchanged.
var legacyStatusMap = map[LoanStatus]LoanStatus{
	StatusPending:   StatusPendingDisbursement,
	StatusApproved:  StatusPendingDisbursement,
	StatusDisbursed: StatusActive,
}

// MapLegacyStatus returns the unified status for a legacy one, and whether the
// input was found in the mapping table.
func MapLegacyStatus(status LoanStatus) (LoanStatus, bool) {
	if mapped, ok := legacyStatusMap[status]; ok {
		return mapped, true
	}
	return status, false
}

// IsUnifiedStatus reports whether the status belongs to the unified vocabulary.
func IsUnifiedStatus(status LoanStatus) bool {
	switch status {
	case StatusPendingDisbursement, StatusActive, StatusOverdue, StatusInArrears,
		StatusClosed, StatusWrittenOff, StatusDefaulted:
		return true
	}
	return false
}
