package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/sftp_txn_ingest/internal/apperrors"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/domain"
	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/sftp_txn_ingest/internal/core/ports/services"
	"github.com/SscSPs/sftp_txn_ingest/pkg/config"
)

type credentialResolver struct {
	BaseService
	cfg     config.SFTPConfig
	secrets gateways.SecretStore
}

// NewCredentialResolver creates a resolver over cfg. secrets may be nil when no
// secrets store parameters are configured.
func NewCredentialResolver(cfg config.SFTPConfig, secrets gateways.SecretStore) portssvc.CredentialResolverSvc {
	return &credentialResolver{cfg: cfg, secrets: secrets}
}

var _ portssvc.CredentialResolverSvc = (*credentialResolver)(nil)

// Resolve picks password authentication when a password is available (or forced),
// otherwise key authentication. Secrets store values are fetched on every call.
func (r *credentialResolver) Resolve(ctx context.Context) (domain.Credentials, error) {
	creds := domain.Credentials{Username: r.cfg.Username}

	usePassword := r.cfg.AuthMode == config.AuthModePassword ||
		(r.cfg.AuthMode != config.AuthModeKey && (r.cfg.Password != "" || r.cfg.PasswordParam != ""))

	if usePassword {
		password, err := r.lookup(ctx, r.cfg.Password, r.cfg.PasswordParam)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("failed to resolve SFTP password: %w", err)
		}
		creds.Password = password
		r.LogDebug(ctx, "Using password authentication", slog.String("user", creds.Username))
		return creds, nil
	}

	key, err := r.lookup(ctx, r.cfg.PrivateKey, r.cfg.KeyParam)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to resolve SFTP private key: %w", err)
	}
	creds.PrivateKey = []byte(key)
	creds.Passphrase = r.cfg.KeyPassphrase
	r.LogDebug(ctx, "Using private key authentication", slog.String("user", creds.Username))
	return creds, nil
}

// lookup returns local when set, else the secrets store value of param.
func (r *credentialResolver) lookup(ctx context.Context, local, param string) (string, error) {
	if local != "" {
		return local, nil
	}
	if param == "" {
		return "", fmt.Errorf("%w: no local value or secrets store parameter configured", apperrors.ErrValidation)
	}
	if r.secrets == nil {
		return "", fmt.Errorf("%w: secrets store not configured for parameter %s", apperrors.ErrValidation, param)
	}
	value, err := r.secrets.GetSecret(ctx, param)
	if err != nil {
		return "", fmt.Errorf("failed to read parameter %s: %w", param, err)
	}
	if value == "" {
		return "", fmt.Errorf("%w: parameter %s is empty", apperrors.ErrValidation, param)
	}
	return value, nil
}
