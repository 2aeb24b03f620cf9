package services

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// LedgerSvc exposes the processed-file ledger
type LedgerSvc interface {
	// GetLedgerEntry returns the ledger entry for filename, or apperrors.ErrNotFound.
	GetLedgerEntry(ctx context.Context, filename string) (*domain.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}
