package mocks

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// StaticConfigProvider is a fixed ports.ConfigurationProvider
type StaticConfigProvider struct {
	Schedule          domain.ScheduleConfig
	ScheduleErr       error
	Credentials       domain.Credentials
	CredentialsErr    error
	SelfServiceUpdate bool
	FallbackIP        string
}

// NewStaticConfigProvider returns a provider with test credentials and no day restriction
func NewStaticConfigProvider() *StaticConfigProvider {
	return &StaticConfigProvider{
		Schedule:    domain.ScheduleConfig{AllowedDays: []int{domain.NoDayRestriction}},
		Credentials: domain.Credentials{AgentCode: "TEST88", Password: "TEST88"},
		FallbackIP:  "127.0.0.1",
	}
}

func (p *StaticConfigProvider) AllowedBillingDays(ctx context.Context) (domain.ScheduleConfig, error) {
	return p.Schedule, p.ScheduleErr
}

func (p *StaticConfigProvider) ProcessorCredentials(ctx context.Context) (domain.Credentials, error) {
	return p.Credentials, p.CredentialsErr
}

func (p *StaticConfigProvider) SelfServiceBillingUpdateEnabled(ctx context.Context) bool {
	return p.SelfServiceUpdate
}

func (p *StaticConfigProvider) FallbackIPAddress() string {
	return p.FallbackIP
}
