package aws

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateSharedConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
}

func TestClientOptions_Defaults(t *testing.T) {
	opts := ClientOptions{}
	assert.Equal(t, DefaultRegion, opts.region())
	assert.Nil(t, opts.baseEndpoint())

	opts = ClientOptions{Region: "eu-west-1", Endpoint: "http://localhost:4566"}
	assert.Equal(t, "eu-west-1", opts.region())
	require.NotNil(t, opts.baseEndpoint())
	assert.Equal(t, "http://localhost:4566", *opts.baseEndpoint())
}

func TestLoadConfig_StaticCredentials(t *testing.T) {
	isolateSharedConfig(t)
	ctx := context.Background()

	cfg, err := loadConfig(ctx, ClientOptions{AccessKeyID: "AKID", SecretAccessKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.Region)

	creds, err := cfg.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNotificationClients_UseConfiguredRegion(t *testing.T) {
	isolateSharedConfig(t)
	ctx := context.Background()
	opts := ClientOptions{Region: "eu-central-1", Endpoint: "http://localhost:4566"}

	snsClient, err := NewSNSClient(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", snsClient.Region())

	sesClient, err := NewSESClient(ctx, ClientOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, sesClient.Region())
}
