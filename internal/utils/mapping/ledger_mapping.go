package mapping

import (
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/models"
)

// ToDomainLedgerEntry converts a model ProcessedFile to a domain LedgerEntry
func ToDomainLedgerEntry(m models.ProcessedFile) domain.LedgerEntry {
	return domain.LedgerEntry{
		Filename:    m.Filename,
		RecordCount: m.RecordCount,
		ProcessedAt: m.ProcessedAt,
	}
}
