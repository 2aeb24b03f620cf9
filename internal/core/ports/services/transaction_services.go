package services

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// TransactionSvc exposes read access to ingested transactions
type TransactionSvc interface {
	// GetTransactionByID returns the stored record for id, or apperrors.ErrNotFound.
	GetTransactionByID(ctx context.Context, id string) (*domain.TransactionRecord, error)
}
