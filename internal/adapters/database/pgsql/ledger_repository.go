package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	"github.com/SscSPs/sftp_txn_ingest/internal/models"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils/mapping"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the processed-file ledger.
func newPgxLedgerRepository(pool PgxPool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerExistsQuery = `SELECT EXISTS (SELECT 1 FROM processed_files WHERE filename = $1);`

// IsProcessed reports whether filename has a ledger entry.
func (r *PgxLedgerRepository) IsProcessed(ctx context.Context, filename string) (bool, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, ledgerExistsQuery, filename).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ledger for %s: %w", filename, err)
	}
	return exists, nil
}

// FindLedgerEntry retrieves the ledger entry for filename.
func (r *PgxLedgerRepository) FindLedgerEntry(ctx context.Context, filename string) (*domain.LedgerEntry, error) {
	query := `
		SELECT filename, record_count, processed_at
		FROM processed_files
		WHERE filename = $1;
	`
	var m models.ProcessedFile
	err := r.Pool.QueryRow(ctx, query, filename).Scan(&m.Filename, &m.RecordCount, &m.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry for %s: %w", filename, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

const defaultLedgerPageSize = 20

// ListLedgerEntries retrieves a page of ledger entries ordered newest first.
// It returns the entries, a token for the next page (if any), and an error.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT filename, record_count, processed_at
		FROM processed_files
	`
	// filename breaks ties between files committed in the same instant.
	orderByClause := `ORDER BY processed_at DESC, filename DESC`

	var args []any
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastProcessedAt, lastFilename, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `WHERE (processed_at, filename) < ($1, $2)`
		args = append(args, lastProcessedAt, lastFilename)
	}
	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	page := make([]models.ProcessedFile, 0, fetchLimit)
	for rows.Next() {
		var m models.ProcessedFile
		if err := rows.Scan(&m.Filename, &m.RecordCount, &m.ProcessedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		page = append(page, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	var nextTokenVal *string
	if len(page) > limit {
		// The token points to the last item included in this page.
		last := page[limit-1]
		token := pagination.EncodeToken(last.ProcessedAt, last.Filename)
		nextTokenVal = &token
		page = page[:limit]
	}

	entries := make([]domain.LedgerEntry, len(page))
	for i, m := range page {
		entries[i] = mapping.ToDomainLedgerEntry(m)
	}
	return entries, nextTokenVal, nil
}
