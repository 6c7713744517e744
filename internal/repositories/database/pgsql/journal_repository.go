package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/utils/mapping"
)

const uniqueViolationCode = "23505"

type PgxJournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new repository for journal and transaction data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournal saves a journal and its transaction lines within a DB transaction.
// A unique-index conflict on (reference_type, reference_id) is reported as
// apperrors.ErrDuplicate so callers can treat the entry as already recorded.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Insert the journal entry using the transaction tx
	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (
			journal_id, tenant_id, journal_date, description, status,
			reference_type, reference_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.TenantID,
		modelJournal.JournalDate,
		modelJournal.Description,
		modelJournal.Status,
		modelJournal.ReferenceType,
		modelJournal.ReferenceID,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	// 2. Prepare and insert transaction lines
	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (transaction_id, journal_id, account_id, amount, transaction_type, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, txn := range transactions {
		modelTxn := mapping.ToModelTransaction(txn)
		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.JournalID,
			modelTxn.AccountID,
			modelTxn.Amount,
			modelTxn.TransactionType,
			modelTxn.Notes,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
		)
	}

	// 3. Send the batch of transaction inserts
	br := tx.SendBatch(ctx, batch)
	err = br.Close() // Important: Close the batch results to check for errors in each command
	if err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction batch for journal "+modelJournal.JournalID, err)
	}

	// If all inserts were successful, commit the transaction
	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for journal "+modelJournal.JournalID, err)
	}

	return nil
}

// FindJournalByReference retrieves the journal recorded for a business event.
func (r *PgxJournalRepository) FindJournalByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, tenant_id, journal_date, description, status,
		       reference_type, reference_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE reference_type = $1 AND reference_id = $2 AND status = $3;
	`
	var modelJournal models.Journal
	err := r.Pool.QueryRow(ctx, query, string(refType), refID, string(domain.Posted)).Scan(
		&modelJournal.JournalID,
		&modelJournal.TenantID,
		&modelJournal.JournalDate,
		&modelJournal.Description,
		&modelJournal.Status,
		&modelJournal.ReferenceType,
		&modelJournal.ReferenceID,
		&modelJournal.CreatedAt,
		&modelJournal.CreatedBy,
		&modelJournal.LastUpdatedAt,
		&modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Map db not found error to application specific error
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by reference "+string(refType)+"/"+refID, err)
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	return &domainJournal, nil
}

// FindTransactionsByJournalID retrieves all transactions associated with a specific journal.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, journal_id, account_id, amount, transaction_type, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE journal_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal "+journalID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0)
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.JournalID,
			&m.AccountID,
			&m.Amount,
			&m.TransactionType,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
