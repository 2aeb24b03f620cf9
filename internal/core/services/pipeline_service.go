package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/middleware"
	"github.com/SscSPs/sftp_txn_ingest/internal/utils/rowparser"
	"github.com/google/uuid"
)

// PipelineConfig holds the settings a pipeline run needs.
type PipelineConfig struct {
	Endpoint     domain.Endpoint
	Directory    string // default when Run gets a blank directory
	FileSuffix   string
	MaxFileBytes int64
}

// PipelineOption configures optional pipeline collaborators.
type PipelineOption func(*pipelineService)

// WithOutcomeReporter replaces the default log reporter.
func WithOutcomeReporter(reporter portssvc.OutcomeReporter) PipelineOption {
	return func(s *pipelineService) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(s *pipelineService) {
		s.now = now
	}
}

type pipelineService struct {
	BaseService
	cfg         PipelineConfig
	dialer      gateways.ChannelDialer
	credentials portssvc.CredentialResolverSvc
	ledger      portsrepo.LedgerReader
	writer      portsrepo.TransactionBatchWriter
	reporter    portssvc.OutcomeReporter
	now         func() time.Time

	// runs within one process never overlap
	mu sync.Mutex
}

// NewPipelineService creates the orchestrator.
func NewPipelineService(
	cfg PipelineConfig,
	dialer gateways.ChannelDialer,
	credentials portssvc.CredentialResolverSvc,
	repos portsrepo.RepositoryProvider,
	opts ...PipelineOption,
) portssvc.PipelineSvcFacade {
	s := &pipelineService{
		cfg:         cfg,
		dialer:      dialer,
		credentials: credentials,
		ledger:      repos.LedgerRepo,
		writer:      repos.TransactionRepo,
		reporter:    NewLogReporter(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PipelineSvcFacade = (*pipelineService)(nil)

func (s *pipelineService) DefaultDirectory() string {
	return s.cfg.Directory
}

// Run processes every candidate file in listing order. Credential, connection
// and listing failures abort the run and are returned. Everything that goes
// wrong with a single file ends up in that file's outcome.
func (s *pipelineService) Run(ctx context.Context, directory string) (*domain.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(directory) == "" {
		directory = s.cfg.Directory
	}

	summary := &domain.RunSummary{
		RunID:     uuid.NewString(),
		Directory: directory,
		StartedAt: s.now().UTC(),
	}
	logger := s.GetLogger(ctx).With(slog.String("run_id", summary.RunID), slog.String("directory", directory))
	ctx = middleware.WithLogger(ctx, logger)
	logger.Info("Run started")

	creds, err := s.credentials.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials: %w", err)
	}

	channel, err := s.dialer.Dial(ctx, s.cfg.Endpoint, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", apperrors.ErrConnection, s.cfg.Endpoint.Host, s.cfg.Endpoint.Port, err)
	}
	defer func() {
		if cerr := channel.Close(); cerr != nil {
			logger.Warn("Failed to close channel", slog.String("error", cerr.Error()))
		}
	}()

	entries, err := channel.List(ctx, directory)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", directory, err)
	}

	for _, file := range entries {
		if !file.IsCandidate(s.cfg.FileSuffix) {
			continue
		}
		outcome := s.processFile(ctx, channel, summary.RunID, file)
		summary.Outcomes = append(summary.Outcomes, outcome)
		s.reporter.ReportFile(ctx, outcome)
	}

	summary.FinishedAt = s.now().UTC()
	s.reporter.ReportRun(ctx, *summary)
	return summary, nil
}

func (s *pipelineService) processFile(ctx context.Context, channel gateways.Channel, runID string, file domain.RemoteFile) (outcome domain.FileOutcome) {
	start := s.now()
	outcome = domain.FileOutcome{RunID: runID, Filename: file.Name}
	defer func() {
		outcome.Duration = s.now().Sub(start)
	}()

	fail := func(err error) domain.FileOutcome {
		outcome.Status = domain.OutcomeFailed
		outcome.Err = err
		outcome.Records = 0
		return outcome
	}

	processed, err := s.ledger.IsProcessed(ctx, file.Name)
	if err != nil {
		return fail(fmt.Errorf("failed to check ledger: %w", err))
	}
	if processed {
		outcome.Status = domain.OutcomeSkipped
		return outcome
	}

	content, err := s.download(ctx, channel, file)
	if err != nil {
		return fail(err)
	}
	outcome.Bytes = int64(len(content))

	logger := s.GetLogger(ctx).With(slog.String("file", file.Name))
	records, err := rowparser.Collect(rowparser.Records(content, func(lineNo int, err error) {
		outcome.SkippedLines++
		logger.Debug("Skipping malformed line", slog.Int("line", lineNo), slog.String("error", err.Error()))
	}))
	if err != nil {
		return fail(fmt.Errorf("failed to parse %s: %w", file.Name, err))
	}
	if len(records) == 0 {
		return fail(fmt.Errorf("%w: no valid records in %s", apperrors.ErrValidation, file.Name))
	}

	if err := s.writer.CommitFile(ctx, file.Name, records); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyProcessed) {
			outcome.Status = domain.OutcomeSkipped
			return outcome
		}
		return fail(fmt.Errorf("failed to commit %s: %w", file.Name, err))
	}

	outcome.Status = domain.OutcomeSucceeded
	outcome.Records = len(records)
	return outcome
}

func (s *pipelineService) download(ctx context.Context, channel gateways.Channel, file domain.RemoteFile) ([]byte, error) {
	if file.Length > s.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", apperrors.ErrFileTooLarge, file.Name, file.Length, s.cfg.MaxFileBytes)
	}

	reader, err := channel.Open(ctx, file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			s.GetLogger(ctx).Warn("Failed to close remote file", slog.String("path", file.Path), slog.String("error", cerr.Error()))
		}
	}()

	content, err := DownloadFile(reader, s.cfg.MaxFileBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", file.Path, err)
	}
	return content, nil
}
