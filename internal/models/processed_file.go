package models

import "time"

// ProcessedFile is a row of the processed_files ledger table.
type ProcessedFile struct {
	Filename    string    `json:"filename"` // Primary Key
	RecordCount int       `json:"recordCount"`
	ProcessedAt time.Time `json:"processedAt"`
}
