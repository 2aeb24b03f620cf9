package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
)

type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionReader
}

// NewTransactionService creates a read-only service over ingested transactions.
func NewTransactionService(transactionRepo portsrepo.TransactionReader) portssvc.TransactionSvc {
	return &transactionService{transactionRepo: transactionRepo}
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	rec, err := s.transactionRepo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", id, err)
	}
	return rec, nil
}
