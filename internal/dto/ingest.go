package dto

import (
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// ResultOK is the fixed success indicator returned by completed runs.
const ResultOK = "ok"

// RunIngestRequest optionally overrides the remote directory for one run.
type RunIngestRequest struct {
	Directory string `json:"directory" binding:"omitempty,startswith=/"`
}

// FileOutcomeResponse is the per-file part of a run response.
type FileOutcomeResponse struct {
	Filename     string `json:"filename"`
	Status       string `json:"status"`
	Records      int    `json:"records"`
	SkippedLines int    `json:"skipped_lines"`
	Error        string `json:"error,omitempty"`
}

// RunIngestResponse is returned once a run has completed, even when files failed.
type RunIngestResponse struct {
	Result    string                `json:"result"`
	RunID     string                `json:"run_id"`
	Directory string                `json:"directory"`
	Succeeded int                   `json:"succeeded"`
	Skipped   int                   `json:"skipped"`
	Failed    int                   `json:"failed"`
	Outcomes  []FileOutcomeResponse `json:"outcomes"`
}

// ToRunIngestResponse converts a domain.RunSummary to RunIngestResponse DTO
func ToRunIngestResponse(s *domain.RunSummary) RunIngestResponse {
	outcomes := make([]FileOutcomeResponse, len(s.Outcomes))
	for i, o := range s.Outcomes {
		outcomes[i] = FileOutcomeResponse{
			Filename:     o.Filename,
			Status:       string(o.Status),
			Records:      o.Records,
			SkippedLines: o.SkippedLines,
			Error:        o.ErrorMessage(),
		}
	}
	return RunIngestResponse{
		Result:    ResultOK,
		RunID:     s.RunID,
		Directory: s.Directory,
		Succeeded: s.Succeeded(),
		Skipped:   s.Skipped(),
		Failed:    s.Failed(),
		Outcomes:  outcomes,
	}
}

// LedgerEntryResponse defines the data returned for a processed file.
type LedgerEntryResponse struct {
	Filename    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		Filename:    e.Filename,
		RecordCount: e.RecordCount,
		ProcessedAt: e.ProcessedAt,
	}
}

// ListLedgerEntriesParams defines the query parameters for listing processed files.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"next_token"`
}

// ListLedgerEntriesResponse is one page of processed files, newest first.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"next_token,omitempty"`
}

// ToListLedgerEntriesResponse converts a page of domain.LedgerEntry to its response DTO
func ToListLedgerEntriesResponse(entries []domain.LedgerEntry, nextToken *string) ListLedgerEntriesResponse {
	resp := ListLedgerEntriesResponse{
		Entries:   make([]LedgerEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = ToLedgerEntryResponse(&entries[i])
	}
	return resp
}

// TransactionResponse is the stored state of one ingested transaction.
type TransactionResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Kind     string `json:"transaction"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// ToTransactionResponse converts a domain.TransactionRecord to TransactionResponse DTO
func ToTransactionResponse(r *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		ID:       r.ID,
		ClientID: r.ClientID,
		Kind:     string(r.Kind),
		Amount:   r.Amount.String(),
		Date:     r.Date.Format(time.DateOnly),
		Status:   string(r.Status),
	}
}
