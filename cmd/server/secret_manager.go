package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/recurring-payment-service/internal/adapters/secrets"
	"github.com/kevin07696/recurring-payment-service/internal/config"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"go.uber.org/zap"
)

// initSecretManager builds the backend processor passwords are read from.
// Supported: local (files, development), aws (Secrets Manager), vault (KV).
func initSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Backend {
	case "aws":
		sm, err := secrets.NewAWSSecretsManagerAdapter(ctx, &secrets.AWSSecretsManagerConfig{
			Region:   cfg.AWSRegion,
			Profile:  cfg.AWSProfile,
			Endpoint: cfg.AWSEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init aws secrets manager: %w", err)
		}
		logger.Info("AWS Secrets Manager initialized", zap.String("region", cfg.AWSRegion))
		return sm, nil

	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.MountPath = cfg.VaultMountPath
		vaultCfg.KVVersion = cfg.VaultKVVersion
		if cfg.VaultRoleID != "" {
			vaultCfg.AuthMethod = "approle"
			vaultCfg.RoleID = cfg.VaultRoleID
			vaultCfg.SecretID = cfg.VaultSecretID
		} else {
			vaultCfg.Token = cfg.VaultToken
		}
		sm, err := secrets.NewVaultAdapter(ctx, vaultCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init vault: %w", err)
		}
		logger.Info("Vault secret manager initialized", zap.String("address", cfg.VaultAddress))
		return sm, nil

	default:
		logger.Warn("Using local file secret manager - NOT for production use!",
			zap.String("path", cfg.LocalPath),
		)
		return secrets.NewLocalSecretManager(cfg.LocalPath, logger), nil
	}
}
