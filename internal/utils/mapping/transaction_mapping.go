package mapping

import (
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/models"
)

// ToModelTransaction converts a domain TransactionRecord to a model Transaction
func ToModelTransaction(d domain.TransactionRecord) models.Transaction {
	return models.Transaction{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Transaction: string(d.Kind),
		Amount:      d.Amount,
		Date:        d.Date,
		Status:      string(d.Status),
	}
}

// ToDomainTransaction converts a model Transaction to a domain TransactionRecord
func ToDomainTransaction(m models.Transaction) domain.TransactionRecord {
	kind, _ := domain.ParseTransactionKind(m.Transaction)
	return domain.TransactionRecord{
		ID:       m.ID,
		ClientID: m.ClientID,
		Kind:     kind,
		Amount:   m.Amount,
		Date:     m.Date,
		Status:   domain.NormalizeStatus(m.Status),
	}
}
