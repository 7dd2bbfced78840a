package ports

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// ConfigurationProvider supplies per-processor settings read at call time
type ConfigurationProvider interface {
	AllowedBillingDays(ctx context.Context) (domain.ScheduleConfig, error)
	ProcessorCredentials(ctx context.Context) (domain.Credentials, error)
	SelfServiceBillingUpdateEnabled(ctx context.Context) bool
	FallbackIPAddress() string
}
