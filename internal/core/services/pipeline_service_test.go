package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const incoming = "/incoming"

type PipelineServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	channel  *memoryChannel
	dialer   *memoryDialer
	store    *memoryStore
	resolver *MockCredentialResolver
	service  portssvc.PipelineSvcFacade
}

func (suite *PipelineServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.channel = newMemoryChannel(5)
	suite.dialer = &memoryDialer{channel: suite.channel}
	suite.store = newMemoryStore()
	suite.resolver = new(MockCredentialResolver)
	suite.resolver.On("Resolve", mock.Anything).Return(domain.Credentials{Username: "ingest", Password: "pw"}, nil).Maybe()
	suite.service = suite.newService()
}

func (suite *PipelineServiceTestSuite) newService(opts ...services.PipelineOption) portssvc.PipelineSvcFacade {
	return services.NewPipelineService(
		services.PipelineConfig{
			Endpoint:     domain.Endpoint{Host: "sftp.example.com", Port: 22},
			Directory:    incoming,
			FileSuffix:   ".csv",
			MaxFileBytes: 1 << 20,
		},
		suite.dialer,
		suite.resolver,
		suite.store.provider(),
		opts...,
	)
}

func (suite *PipelineServiceTestSuite) run() *domain.RunSummary {
	summary, err := suite.service.Run(suite.ctx, "")
	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	return summary
}

func (suite *PipelineServiceTestSuite) statuses(summary *domain.RunSummary) map[string]domain.OutcomeStatus {
	out := map[string]domain.OutcomeStatus{}
	for _, o := range summary.Outcomes {
		out[o.Filename] = o.Status
	}
	return out
}

func (suite *PipelineServiceTestSuite) TestRun_IngestsCandidateFiles() {
	suite.channel.put(incoming, "a.csv", "ID,ClientID,Transaction,Amount,Date,Status\n1,A,D,100.00,2024-01-01,Pending\n2,B,W,5,2024-01-02,comp\n")
	suite.channel.put(incoming, "notes.txt", "1,A,D,1,2024-01-01,Pending\n")
	suite.channel.put(incoming, "upper.CSV", "1,A,D,1,2024-01-01,Pending\n")
	suite.channel.dirs[incoming] = append(suite.channel.dirs[incoming], memoryFile{name: "archive.csv", dir: true})

	summary := suite.run()

	suite.Equal(incoming, summary.Directory)
	suite.NotEmpty(summary.RunID)
	suite.Require().Len(summary.Outcomes, 1)
	outcome := summary.Outcomes[0]
	suite.Equal("a.csv", outcome.Filename)
	suite.Equal(domain.OutcomeSucceeded, outcome.Status)
	suite.Equal(2, outcome.Records)
	suite.Equal(summary.RunID, outcome.RunID)

	rec, err := suite.store.FindTransactionByID(suite.ctx, "2")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, rec.Status)
	suite.Equal(domain.Withdrawal, rec.Kind)
	suite.Equal(1, suite.channel.closed)
	suite.Require().Len(suite.channel.opened, 1)
	suite.True(suite.channel.opened[0].closed)
}

func (suite *PipelineServiceTestSuite) TestRun_IsIdempotent() {
	suite.channel.put(incoming, "a.csv", "1,A,D,100.00,2024-01-01,Pending\n")

	first := suite.run()
	second := suite.run()

	suite.Equal(domain.OutcomeSucceeded, first.Outcomes[0].Status)
	suite.Equal(domain.OutcomeSkipped, second.Outcomes[0].Status)
	suite.Equal(1, suite.store.commits)
	suite.Len(suite.store.ledger, 1)
	suite.Len(suite.store.rows, 1)
	// a skipped file is never downloaded
	suite.Len(suite.channel.opened, 1)
	suite.NotEqual(first.RunID, second.RunID)
}

func (suite *PipelineServiceTestSuite) TestRun_LaterFileOverwritesRecord() {
	suite.channel.put(incoming, "day1.csv", "X,A,D,10,2024-01-01,Pending\n")
	suite.run()

	suite.channel.put(incoming, "day2.csv", "X,A,D,10,2024-01-01,Completed\n")
	summary := suite.run()

	suite.Equal(map[string]domain.OutcomeStatus{
		"day1.csv": domain.OutcomeSkipped,
		"day2.csv": domain.OutcomeSucceeded,
	}, suite.statuses(summary))
	suite.Len(suite.store.rows, 1)
	rec, err := suite.store.FindTransactionByID(suite.ctx, "X")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, rec.Status)
}

func (suite *PipelineServiceTestSuite) TestRun_DuplicateIDsWithinFileLastWins() {
	suite.channel.put(incoming, "a.csv", "1,A,D,1,2024-01-01,Pending\n1,A,D,2,2024-01-01,Failed\n")

	summary := suite.run()

	suite.Equal(2, summary.Outcomes[0].Records)
	rec, err := suite.store.FindTransactionByID(suite.ctx, "1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusFailed, rec.Status)
	suite.Equal("2", rec.Amount.String())
}

func (suite *PipelineServiceTestSuite) TestRun_PartialFailureIsolation() {
	suite.channel.put(incoming, "1.csv", "a1,A,D,1,2024-01-01,Pending\n")
	suite.channel.put(incoming, "2.csv", "b1,B,D,1,2024-01-01,Pending\nb2,B,D,1,2024/01/02,Pending\n")
	suite.channel.put(incoming, "3.csv", "c1,C,W,1,2024-01-03,Pending\n")

	summary := suite.run()

	suite.Equal([]string{"1.csv", "2.csv", "3.csv"}, []string{
		summary.Outcomes[0].Filename, summary.Outcomes[1].Filename, summary.Outcomes[2].Filename,
	})
	suite.Equal(2, summary.Succeeded())
	suite.Equal(1, summary.Failed())
	failed := summary.Outcomes[1]
	suite.Equal(domain.OutcomeFailed, failed.Status)
	suite.ErrorIs(failed.Err, apperrors.ErrInvalidDate)
	suite.Zero(failed.Records)

	suite.Contains(suite.store.ledger, "1.csv")
	suite.Contains(suite.store.ledger, "3.csv")
	suite.NotContains(suite.store.ledger, "2.csv")
	_, err := suite.store.FindTransactionByID(suite.ctx, "b1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PipelineServiceTestSuite) TestRun_WriteFailureIsContained() {
	suite.channel.put(incoming, "1.csv", "a1,A,D,1,2024-01-01,Pending\n")
	suite.channel.put(incoming, "2.csv", "b1,B,D,1,2024-01-01,Pending\n")
	writeErr := errors.New("check constraint violated")
	suite.store.failNext["1.csv"] = writeErr

	summary := suite.run()

	suite.Equal(domain.OutcomeFailed, summary.Outcomes[0].Status)
	suite.ErrorIs(summary.Outcomes[0].Err, writeErr)
	suite.Equal(domain.OutcomeSucceeded, summary.Outcomes[1].Status)

	// the failed file is retried on the next run
	retry := suite.run()
	suite.Equal(domain.OutcomeSucceeded, retry.Outcomes[0].Status)
	suite.Equal(domain.OutcomeSkipped, retry.Outcomes[1].Status)
}

func (suite *PipelineServiceTestSuite) TestRun_MalformedLineTolerance() {
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "%d,C,D,%d,2024-01-01,Completed\n", i, i)
	}
	b.WriteString("11,C,D\n")
	b.WriteString("12,C,Z,1,2024-01-01,Completed\n")
	b.WriteString("13,C,D,none,2024-01-01,Completed\n")
	suite.channel.put(incoming, "a.csv", b.String())

	summary := suite.run()

	outcome := summary.Outcomes[0]
	suite.Equal(domain.OutcomeSucceeded, outcome.Status)
	suite.Equal(10, outcome.Records)
	suite.Equal(3, outcome.SkippedLines)
	suite.Len(suite.store.rows, 10)
	suite.Equal(int64(b.Len()), outcome.Bytes)
}

func (suite *PipelineServiceTestSuite) TestRun_NoValidRecordsFails() {
	suite.channel.put(incoming, "empty.csv", "id,clientid,transaction,amount,date,status\n")
	suite.channel.put(incoming, "junk.csv", "hello\nworld\n")

	summary := suite.run()

	suite.Equal(2, summary.Failed())
	for _, o := range summary.Outcomes {
		suite.ErrorIs(o.Err, apperrors.ErrValidation)
	}
	suite.Empty(suite.store.ledger)
}

func (suite *PipelineServiceTestSuite) TestRun_OversizeFileFails() {
	suite.channel.put(incoming, "big.csv", strings.Repeat("1,A,D,1,2024-01-01,Pending\n", 10))
	suite.channel.put(incoming, "small.csv", "1,A,D,1,2024-01-01,Pending\n")

	svc := services.NewPipelineService(
		services.PipelineConfig{Endpoint: domain.Endpoint{Host: "h", Port: 22}, Directory: incoming, FileSuffix: ".csv", MaxFileBytes: 100},
		suite.dialer, suite.resolver, suite.store.provider(),
	)
	summary, err := svc.Run(suite.ctx, incoming)

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeFailed, summary.Outcomes[0].Status)
	suite.ErrorIs(summary.Outcomes[0].Err, apperrors.ErrFileTooLarge)
	suite.Equal(domain.OutcomeSucceeded, summary.Outcomes[1].Status)
}

func (suite *PipelineServiceTestSuite) TestRun_OpenFailureIsContained() {
	suite.channel.dirs[incoming] = []memoryFile{
		{name: "locked.csv", content: []byte("1,A,D,1,2024-01-01,Pending\n"), openErr: errors.New("permission denied")},
		{name: "ok.csv", content: []byte("2,A,D,1,2024-01-01,Pending\n")},
	}

	summary := suite.run()

	suite.Equal(domain.OutcomeFailed, summary.Outcomes[0].Status)
	suite.Equal(domain.OutcomeSucceeded, summary.Outcomes[1].Status)
}

func (suite *PipelineServiceTestSuite) TestRun_LedgerLookupErrorFailsFile() {
	suite.channel.put(incoming, "a.csv", "1,A,D,1,2024-01-01,Pending\n")
	suite.store.ledgerErr = errors.New("db down")

	summary := suite.run()

	suite.Equal(domain.OutcomeFailed, summary.Outcomes[0].Status)
	suite.Empty(suite.channel.opened)
}

func (suite *PipelineServiceTestSuite) TestRun_ConcurrentCommitIsSkipped() {
	suite.channel.put(incoming, "a.csv", "1,A,D,1,2024-01-01,Pending\n")
	suite.store.failNext["a.csv"] = fmt.Errorf("commit: %w", apperrors.ErrAlreadyProcessed)

	summary := suite.run()

	suite.Equal(domain.OutcomeSkipped, summary.Outcomes[0].Status)
	suite.Nil(summary.Outcomes[0].Err)
}

func (suite *PipelineServiceTestSuite) TestRun_ExplicitDirectory() {
	suite.channel.put("/other", "a.csv", "1,A,D,1,2024-01-01,Pending\n")

	summary, err := suite.service.Run(suite.ctx, "/other")

	suite.Require().NoError(err)
	suite.Equal("/other", summary.Directory)
	suite.Len(summary.Outcomes, 1)
	suite.Equal(incoming, suite.service.DefaultDirectory())
}

func (suite *PipelineServiceTestSuite) TestRun_ConnectionFailureIsRunLevel() {
	suite.dialer.err = errors.New("handshake failed")

	summary, err := suite.service.Run(suite.ctx, "")

	suite.Nil(summary)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConnection)
	suite.Zero(suite.channel.closed)
}

func (suite *PipelineServiceTestSuite) TestRun_CredentialFailureIsRunLevel() {
	resolver := new(MockCredentialResolver)
	resolver.On("Resolve", mock.Anything).Return(domain.Credentials{}, apperrors.ErrValidation).Once()
	suite.resolver = resolver
	suite.service = suite.newService()

	summary, err := suite.service.Run(suite.ctx, "")

	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Zero(suite.dialer.dials)
	resolver.AssertExpectations(suite.T())
}

func (suite *PipelineServiceTestSuite) TestRun_ListFailureClosesChannel() {
	suite.channel.listErr = errors.New("no such directory")

	summary, err := suite.service.Run(suite.ctx, "")

	suite.Nil(summary)
	suite.Require().Error(err)
	suite.Equal(1, suite.channel.closed)
}

func (suite *PipelineServiceTestSuite) TestRun_ReportsOutcomes() {
	suite.channel.put(incoming, "a.csv", "1,A,D,1,2024-01-01,Pending\n")
	suite.channel.put(incoming, "b.csv", "garbage\n")
	reporter := new(MockOutcomeReporter)
	reporter.On("ReportFile", mock.Anything, mock.MatchedBy(func(o domain.FileOutcome) bool {
		return o.Filename == "a.csv" && o.Status == domain.OutcomeSucceeded
	})).Once()
	reporter.On("ReportFile", mock.Anything, mock.MatchedBy(func(o domain.FileOutcome) bool {
		return o.Filename == "b.csv" && o.Status == domain.OutcomeFailed && o.Err != nil
	})).Once()
	reporter.On("ReportRun", mock.Anything, mock.MatchedBy(func(s domain.RunSummary) bool {
		return s.Succeeded() == 1 && s.Failed() == 1
	})).Once()
	suite.service = suite.newService(services.WithOutcomeReporter(reporter))

	suite.run()

	reporter.AssertExpectations(suite.T())
}

func TestPipelineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineServiceTestSuite))
}
