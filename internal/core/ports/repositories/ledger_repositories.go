package repositories

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// LedgerReader defines read operations for the processed-file ledger
type LedgerReader interface {
	// IsProcessed reports whether a ledger entry exists for filename.
	IsProcessed(ctx context.Context, filename string) (bool, error)

	// FindLedgerEntry retrieves the ledger entry for filename, or apperrors.ErrNotFound.
	FindLedgerEntry(ctx context.Context, filename string) (*domain.LedgerEntry, error)

	// ListLedgerEntries returns entries newest first using token-based pagination.
	// The returned token is nil on the last page.
	ListLedgerEntries(ctx context.Context, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
// Ledger entries are only ever written together with a file's records, see TransactionBatchWriter.
type LedgerRepositoryFacade interface {
	LedgerReader
}
