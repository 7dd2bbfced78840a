package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	secretsmanagertypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalSecretManager_GetSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "iats"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iats", "plain"), []byte("TEST88\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iats", "json"), []byte(`{"value":"s3cret","version":"v7"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "iats", "empty"), []byte("  \n"), 0o600))

	m := NewLocalSecretManager(dir, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name        string
		path        string
		wantValue   string
		wantVersion string
		wantErr     error
	}{
		{name: "plain text is trimmed", path: "iats/plain", wantValue: "TEST88", wantVersion: "v1"},
		{name: "json document", path: "iats/json", wantValue: "s3cret", wantVersion: "v7"},
		{name: "missing file", path: "iats/missing", wantErr: ErrSecretNotFound},
		{name: "empty file", path: "iats/empty", wantErr: ErrSecretNotFound},
		{name: "path traversal stays in base", path: "../../etc/passwd", wantErr: ErrSecretNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := m.GetSecret(ctx, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, secret.Value)
			assert.Equal(t, tt.wantVersion, secret.Version)
		})
	}
}

type fakeSecretsManager struct {
	out *secretsmanager.GetSecretValueOutput
	err error
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.out, f.err
}

func TestAWSSecretsManager_GetSecret(t *testing.T) {
	tests := []struct {
		name      string
		fake      *fakeSecretsManager
		wantValue string
		wantErr   error
		anyErr    bool
	}{
		{
			name: "found",
			fake: &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{
				SecretString: aws.String("TEST88"),
				VersionId:    aws.String("abc"),
			}},
			wantValue: "TEST88",
		},
		{
			name:    "not found",
			fake:    &fakeSecretsManager{err: &secretsmanagertypes.ResourceNotFoundException{Message: aws.String("nope")}},
			wantErr: ErrSecretNotFound,
		},
		{
			name:    "binary secret",
			fake:    &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1}}},
			wantErr: ErrSecretNotFound,
		},
		{
			name:   "service error",
			fake:   &fakeSecretsManager{err: errors.New("throttled")},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &awsSecretsManagerAdapter{client: tt.fake, logger: zap.NewNop()}

			secret, err := a.GetSecret(context.Background(), "recurring-payments/iats/na/password")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrSecretNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantValue, secret.Value)
				assert.Equal(t, "abc", secret.Version)
			}
		})
	}
}

func TestExtractVaultSecret(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]interface{}
		kv          string
		wantValue   string
		wantVersion string
		wantErr     bool
	}{
		{
			name: "kv v2 with value key",
			raw: map[string]interface{}{
				"data":     map[string]interface{}{"value": "TEST88", "note": "x"},
				"metadata": map[string]interface{}{"version": json.Number("3")},
			},
			kv:          "v2",
			wantValue:   "TEST88",
			wantVersion: "3",
		},
		{
			name:        "kv v2 without value key",
			raw:         map[string]interface{}{"data": map[string]interface{}{"password": "p"}},
			kv:          "v2",
			wantValue:   "p",
			wantVersion: "1",
		},
		{
			name:        "kv v1",
			raw:         map[string]interface{}{"value": "v1secret"},
			kv:          "v1",
			wantValue:   "v1secret",
			wantVersion: "1",
		},
		{name: "kv v2 missing data", raw: map[string]interface{}{"value": "x"}, kv: "v2", wantErr: true},
		{name: "no string values", raw: map[string]interface{}{"data": map[string]interface{}{"n": 1}}, kv: "v2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := extractVaultSecret(tt.raw, tt.kv)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, secret.Value)
			assert.Equal(t, tt.wantVersion, secret.Version)
		})
	}
}

func TestVaultPath(t *testing.T) {
	assert.Equal(t, "secret/data/recurring-payments/iats", vaultPath("secret", "v2", "recurring-payments/iats"))
	assert.Equal(t, "kv/recurring-payments/iats", vaultPath("kv", "v1", "recurring-payments/iats"))
}
