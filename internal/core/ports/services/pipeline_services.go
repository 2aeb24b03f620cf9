package services

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// PipelineRunnerSvc runs ingestion passes over a remote directory
type PipelineRunnerSvc interface {
	// Run ingests every candidate file under directory. A blank directory falls
	// back to the configured default. Per-file failures are reported in the
	// summary; only connection/setup failures are returned as an error.
	Run(ctx context.Context, directory string) (*domain.RunSummary, error)
}

// PipelineSvcFacade combines all pipeline-related service interfaces
type PipelineSvcFacade interface {
	PipelineRunnerSvc

	// DefaultDirectory returns the directory used when none is given.
	DefaultDirectory() string
}

// OutcomeReporter publishes per-file outcomes to a side channel (logs, metrics, analytics).
type OutcomeReporter interface {
	ReportFile(ctx context.Context, outcome domain.FileOutcome)
	ReportRun(ctx context.Context, summary domain.RunSummary)
}
