package services

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// ledgerService provides read access to the processed-file ledger.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvc {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) GetLedgerEntry(ctx context.Context, filename string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindLedgerEntry(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entry for %s: %w", filename, err)
	}
	return entry, nil
}

func (s *ledgerService) ListLedgerEntries(ctx context.Context, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	entries, token, err := s.ledgerRepo.ListLedgerEntries(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list ledger entries")
		return nil, nil, err
	}
	return entries, token, nil
}
