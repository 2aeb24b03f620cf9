package services

import (
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// secrets may be nil when no secrets store parameters are configured.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	dialer gateways.ChannelDialer,
	secrets gateways.SecretStore,
	reporter portssvc.OutcomeReporter,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Credentials = NewCredentialResolver(cfg.SFTP, secrets)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Transactions = NewTransactionService(repos.TransactionRepo)

	container.Pipeline = NewPipelineService(
		PipelineConfig{
			Endpoint:     domain.Endpoint{Host: cfg.SFTP.Host, Port: cfg.SFTP.Port},
			Directory:    cfg.SFTP.Directory,
			FileSuffix:   cfg.SFTP.FileSuffix,
			MaxFileBytes: cfg.SFTP.MaxFileBytes,
		},
		dialer,
		container.Credentials,
		repos,
		WithOutcomeReporter(reporter),
	)

	return container
}
