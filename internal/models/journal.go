package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

// Journal is the persistence shape of a journals row.
type Journal struct {
	JournalID     string        `db:"journal_id"`
	TenantID      string        `db:"tenant_id"`
	JournalDate   time.Time     `db:"journal_date"`
	Description   string        `db:"description"`
	Status        JournalStatus `db:"status"`
	ReferenceType *string       `db:"reference_type"` // Nullable: manual entries have no reference
	ReferenceID   *string       `db:"reference_id"`
	AuditFields
}

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

// Transaction is the persistence shape of a transactions row.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType TransactionType `db:"transaction_type"`
	Notes           string          `db:"notes"`
	AuditFields
}
