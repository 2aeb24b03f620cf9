package domain

import "time"

// LedgerEntry is permanent proof that a file was fully ingested.
// It is written in the same database transaction as the file's records.
type LedgerEntry struct {
	Filename    string    `json:"filename"`
	RecordCount int       `json:"recordCount"`
	ProcessedAt time.Time `json:"processedAt"`
}
