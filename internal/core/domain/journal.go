package domain

import "time"

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// ReferenceType links a journal to the business event it records. The
// (reference_type, reference_id) pair is the idempotency key for backfill.
type ReferenceType string

const (
	RefLoanDisbursement ReferenceType = "loan_disbursement"
	RefLoanPayment      ReferenceType = "loan_payment"
)

// Journal represents a single, balanced financial event composed of multiple transactions.
type Journal struct {
	JournalID     string        `json:"journalID"` // Primary Key (UUID)
	TenantID      string        `json:"tenantID"`
	JournalDate   time.Time     `json:"journalDate"` // Date the event occurred
	Description   string        `json:"description"`
	Status        JournalStatus `json:"status"` // Default: Posted
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   string        `json:"referenceID"` // Loan ID or payment ID
	Transactions  []Transaction `json:"transactions,omitempty"`
	AuditFields
}
