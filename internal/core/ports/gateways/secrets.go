package gateways

import "context"

// SecretStore resolves named secrets from a remote secrets store.
type SecretStore interface {
	// GetSecret returns the decrypted value of the named parameter.
	GetSecret(ctx context.Context, name string) (string, error)
}
