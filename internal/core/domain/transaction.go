package domain

import "github.com/shopspring/decimal"

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction represents a single line item within a Journal, affecting one account.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	JournalID       string          `json:"journalID"`     // FK -> Journal.journalID
	AccountID       string          `json:"accountID"`     // FK -> chart of accounts
	Amount          decimal.Decimal `json:"amount"`        // Positive value
	TransactionType TransactionType `json:"transactionType"`
	Notes           string          `json:"notes"`
	AuditFields
}
