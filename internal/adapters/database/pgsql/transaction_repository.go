package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	"github.com/SscSPs/sftp_txn_ingest/internal/models"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxTransactionRepository struct {
	BaseRepository
	now func() time.Time
}

// newPgxTransactionRepository creates a new repository for ingested transactions.
func newPgxTransactionRepository(pool PgxPool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		now:            time.Now,
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const (
	fileLockQuery = `SELECT pg_advisory_xact_lock(hashtext($1));`

	upsertTransactionQuery = `
		INSERT INTO transactions (id, client_id, transaction, amount, date, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			transaction = EXCLUDED.transaction,
			amount = EXCLUDED.amount,
			date = EXCLUDED.date,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at;
	`

	insertLedgerQuery = `
		INSERT INTO processed_files (filename, record_count, processed_at)
		VALUES ($1, $2, $3);
	`
)

// CommitFile writes records and the ledger entry for filename as one unit.
// A per-filename advisory lock serializes concurrent writers, so the ledger
// re-check sees any entry committed by a racing run.
func (r *PgxTransactionRepository) CommitFile(ctx context.Context, filename string, records []domain.TransactionRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if _, err := tx.Exec(ctx, fileLockQuery, filename); err != nil {
		return fmt.Errorf("failed to lock %s: %w", filename, err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, ledgerExistsQuery, filename).Scan(&exists); err != nil {
		return fmt.Errorf("failed to re-check ledger for %s: %w", filename, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyProcessed, filename)
	}

	now := r.now().UTC()
	for i, rec := range records {
		m := mapping.ToModelTransaction(rec)
		if _, err := tx.Exec(ctx, upsertTransactionQuery,
			m.ID,
			m.ClientID,
			m.Transaction,
			m.Amount,
			m.Date,
			m.Status,
			now,
		); err != nil {
			return fmt.Errorf("failed to upsert record %d (id %s) of %s: %w", i+1, m.ID, filename, err)
		}
	}

	if _, err := tx.Exec(ctx, insertLedgerQuery, filename, len(records), now); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyProcessed, filename)
		}
		return fmt.Errorf("failed to record %s in ledger: %w", filename, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyProcessed, filename)
		}
		return err
	}
	committed = true
	return nil
}

// FindTransactionByID retrieves the stored row for id.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	query := `
		SELECT id, client_id, transaction, amount, date, status, updated_at
		FROM transactions
		WHERE id = $1;
	`
	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.ClientID,
		&m.Transaction,
		&m.Amount,
		&m.Date,
		&m.Status,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", id, err)
	}
	rec := mapping.ToDomainTransaction(m)
	return &rec, nil
}
