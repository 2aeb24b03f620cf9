// Package secrets resolves credentials from AWS Systems Manager Parameter Store.
package secrets

import (
	"context"
	"fmt"

	"github.com/SscSPs/sftp_txn_ingest/internal/core/ports/gateways"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterAPI is the part of *ssm.Client the store uses.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMStore reads SecureString parameters with decryption.
type SSMStore struct {
	client ParameterAPI
}

// NewSSMStore loads the default AWS configuration for region.
func NewSSMStore(ctx context.Context, region string) (*SSMStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSSMStoreWithClient(ssm.NewFromConfig(cfg)), nil
}

// NewSSMStoreWithClient wraps an existing client.
func NewSSMStoreWithClient(client ParameterAPI) *SSMStore {
	return &SSMStore{client: client}
}

var _ gateways.SecretStore = (*SSMStore)(nil)

func (s *SSMStore) GetSecret(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}
	if out == nil || out.Parameter == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}
