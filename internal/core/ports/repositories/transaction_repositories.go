package repositories

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ingested transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its natural key, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, id string) (*domain.TransactionRecord, error)
}

// TransactionBatchWriter defines the atomic write of one file's batch
type TransactionBatchWriter interface {
	// CommitFile upserts records keyed on ID and inserts the ledger entry for filename
	// in a single database transaction. If filename is already in the ledger the
	// transaction is rolled back and apperrors.ErrAlreadyProcessed is returned.
	CommitFile(ctx context.Context, filename string, records []domain.TransactionRecord) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionBatchWriter
}

// TransactionManager is the database transaction lifecycle CommitFile runs inside.
// Rollback after a successful Commit is a no-op.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
