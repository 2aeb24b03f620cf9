package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
)

type logReporter struct {
	BaseService
}

// NewLogReporter reports outcomes through the context logger.
func NewLogReporter() portssvc.OutcomeReporter {
	return &logReporter{}
}

func (r *logReporter) ReportFile(ctx context.Context, outcome domain.FileOutcome) {
	attrs := []any{
		slog.String("file", outcome.Filename),
		slog.String("outcome", string(outcome.Status)),
		slog.Int("records", outcome.Records),
		slog.Int("skipped_lines", outcome.SkippedLines),
		slog.Int64("bytes", outcome.Bytes),
		slog.Duration("duration", outcome.Duration),
	}
	switch outcome.Status {
	case domain.OutcomeFailed:
		r.GetLogger(ctx).Error("File failed", append(attrs, slog.String("error", outcome.ErrorMessage()))...)
	case domain.OutcomeSkipped:
		r.LogInfo(ctx, "File skipped, already processed", attrs...)
	default:
		r.LogInfo(ctx, "File ingested", attrs...)
	}
}

func (r *logReporter) ReportRun(ctx context.Context, summary domain.RunSummary) {
	r.LogInfo(ctx, "Run completed",
		slog.Int("succeeded", summary.Succeeded()),
		slog.Int("skipped", summary.Skipped()),
		slog.Int("failed", summary.Failed()),
		slog.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
}

// MultiReporter fans outcomes out to several reporters in order.
type MultiReporter []portssvc.OutcomeReporter

func (m MultiReporter) ReportFile(ctx context.Context, outcome domain.FileOutcome) {
	for _, r := range m {
		r.ReportFile(ctx, outcome)
	}
}

func (m MultiReporter) ReportRun(ctx context.Context, summary domain.RunSummary) {
	for _, r := range m {
		r.ReportRun(ctx, summary)
	}
}

var (
	_ portssvc.OutcomeReporter = (*logReporter)(nil)
	_ portssvc.OutcomeReporter = MultiReporter(nil)
)
