// posthog_client.go provides a wrapper around the posthog.Client to make it easier to use and handle when its not initialized.
package utils

import (
	"context"
	"log/slog"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/posthog/posthog-go"
)

const (
	posthogEndpoint = "https://eu.i.posthog.com"

	// IngestDistinctID is the distinct id used for events emitted by the pipeline itself.
	IngestDistinctID = "sftp-ingest"
)

// PosthogClientWrapper is a nil-safe posthog client. It also publishes pipeline outcomes as events.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: posthogEndpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", posthogEndpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	if w.logger != nil {
		w.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctId), slog.String("event", event))
	}
	if err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	}); err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// FileEventName maps an outcome to its analytics event name.
func FileEventName(status domain.OutcomeStatus) string {
	switch status {
	case domain.OutcomeSucceeded:
		return "file_ingested"
	case domain.OutcomeSkipped:
		return "file_skipped"
	default:
		return "file_failed"
	}
}

// ReportFile sends one event per processed file.
func (w *PosthogClientWrapper) ReportFile(_ context.Context, outcome domain.FileOutcome) {
	props := map[string]any{
		"run_id":        outcome.RunID,
		"file":          outcome.Filename,
		"records":       outcome.Records,
		"skipped_lines": outcome.SkippedLines,
		"bytes":         outcome.Bytes,
		"duration_ms":   outcome.Duration.Milliseconds(),
	}
	if msg := outcome.ErrorMessage(); msg != "" {
		props["error"] = msg
	}
	w.Enqueue(IngestDistinctID, FileEventName(outcome.Status), props)
}

// ReportRun sends a single run summary event.
func (w *PosthogClientWrapper) ReportRun(_ context.Context, summary domain.RunSummary) {
	w.Enqueue(IngestDistinctID, "ingest_run_completed", map[string]any{
		"run_id":      summary.RunID,
		"directory":   summary.Directory,
		"succeeded":   summary.Succeeded(),
		"skipped":     summary.Skipped(),
		"failed":      summary.Failed(),
		"duration_ms": summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	})
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	w.posthogClient.Close()
}
