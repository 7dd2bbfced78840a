package ports

import "context"

// Secret is a retrieved secret value
type Secret struct {
	Value   string
	Version string
}

// SecretManager reads secrets from a secret management backend.
// Path format depends on the backend:
//   - AWS: "recurring-payments/iats/{processor}/password" or a full ARN
//   - Vault: "recurring-payments/iats/{processor}" under the KV mount
//   - local: a file path relative to the base directory
type SecretManager interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
