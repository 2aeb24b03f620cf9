package secrets_test

import (
	"context"
	"testing"

	"github.com/SscSPs/sftp_txn_ingest/internal/adapters/secrets"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParameterAPI struct {
	mock.Mock
}

func (m *MockParameterAPI) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParameterOutput), args.Error(1)
}

func decrypted(name string) interface{} {
	return mock.MatchedBy(func(in *ssm.GetParameterInput) bool {
		return aws.ToString(in.Name) == name && aws.ToBool(in.WithDecryption)
	})
}

func TestSSMStore_GetSecret(t *testing.T) {
	ctx := context.Background()
	api := new(MockParameterAPI)
	api.On("GetParameter", ctx, decrypted("/sftp/key")).
		Return(&ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("PEM")}}, nil).Once()

	value, err := secrets.NewSSMStoreWithClient(api).GetSecret(ctx, "/sftp/key")

	require.NoError(t, err)
	assert.Equal(t, "PEM", value)
	api.AssertExpectations(t)
}

func TestSSMStore_GetSecretErrors(t *testing.T) {
	ctx := context.Background()
	api := new(MockParameterAPI)
	api.On("GetParameter", ctx, decrypted("/missing")).Return(nil, assert.AnError).Once()
	api.On("GetParameter", ctx, decrypted("/empty")).Return(&ssm.GetParameterOutput{}, nil).Once()
	store := secrets.NewSSMStoreWithClient(api)

	_, err := store.GetSecret(ctx, "/missing")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = store.GetSecret(ctx, "/empty")
	assert.Error(t, err)

	api.AssertExpectations(t)
}
