package services

import (
	"context"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
)

// CredentialResolverSvc obtains the remote file server credentials
type CredentialResolverSvc interface {
	// Resolve returns credentials from local configuration or the secrets store.
	Resolve(ctx context.Context) (domain.Credentials, error)
}
