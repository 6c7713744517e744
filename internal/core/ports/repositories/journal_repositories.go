package repositories

import (
	"context"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByReference retrieves the journal recorded for a business event,
	// identified by its (reference_type, reference_id) idempotency key.
	FindJournalByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.Journal, error)

	// FindTransactionsByJournalID retrieves all transactions associated with a single journal ID.
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal and its transactions atomically.
	SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// SchemaReader exposes schema introspection used by the validate subcommand.
type SchemaReader interface {
	// MissingColumns returns the required table.column pairs absent from the
	// connected database, empty when the schema is migration-ready.
	MissingColumns(ctx context.Context) ([]string, error)
}
