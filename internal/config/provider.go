package config

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

// ProcessorSettings implements ports.ConfigurationProvider for one processor
type ProcessorSettings struct {
	cfg        ProcessorConfig
	schedule   domain.ScheduleConfig
	fallbackIP string
	secrets    *SecretCache
}

var _ ports.ConfigurationProvider = (*ProcessorSettings)(nil)

// NewProcessorSettings builds the provider. secrets may be nil when the
// password is configured inline.
func NewProcessorSettings(cfg ProcessorConfig, fallbackIP string, secrets *SecretCache) (*ProcessorSettings, error) {
	schedule, err := domain.ParseScheduleConfig(cfg.AllowedDays)
	if err != nil {
		return nil, err
	}
	if cfg.Password == "" && secrets == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "no secret manager for processor password").
			WithDetail("processor", cfg.Key)
	}
	return &ProcessorSettings{cfg: cfg, schedule: schedule, fallbackIP: fallbackIP, secrets: secrets}, nil
}

// Processor returns the processor profile
func (p *ProcessorSettings) Processor() (domain.Processor, error) {
	return domain.NewProcessor(p.cfg.Name, p.cfg.Mode, p.cfg.SiteURL)
}

// AllowedBillingDays returns the days of month recurring charges may run on
func (p *ProcessorSettings) AllowedBillingDays(ctx context.Context) (domain.ScheduleConfig, error) {
	days := make([]int, len(p.schedule.AllowedDays))
	copy(days, p.schedule.AllowedDays)
	return domain.ScheduleConfig{AllowedDays: days}, nil
}

// ProcessorCredentials returns the agent code and the inline or secret-managed password
func (p *ProcessorSettings) ProcessorCredentials(ctx context.Context) (domain.Credentials, error) {
	creds := domain.Credentials{AgentCode: p.cfg.AgentCode, Password: p.cfg.Password}
	if creds.Password != "" {
		return creds, nil
	}

	password, err := p.secrets.Get(ctx, p.cfg.PasswordSecretPath)
	if err != nil {
		return domain.Credentials{}, domain.WrapError(domain.ErrorCodeMissingConfiguration, "processor password unavailable", err).
			WithDetail("processor", p.cfg.Key)
	}
	creds.Password = password
	return creds, nil
}

// SelfServiceBillingUpdateEnabled reports whether contributors may update their own card
func (p *ProcessorSettings) SelfServiceBillingUpdateEnabled(ctx context.Context) bool {
	return p.cfg.SelfServiceBillingUpdate
}

// FallbackIPAddress is used when a request carries no customer IP
func (p *ProcessorSettings) FallbackIPAddress() string {
	return p.fallbackIP
}
