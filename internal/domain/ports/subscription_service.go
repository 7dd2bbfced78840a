package ports

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// SubscriptionService exposes lifecycle operations on recurring contributions
type SubscriptionService interface {
	Cancel(ctx context.Context, subscriptionID string) (*domain.SubscriptionAck, error)
	ChangeAmount(ctx context.Context, subscriptionID, amount string) (*domain.SubscriptionAck, error)
	UpdateBillingInfo(ctx context.Context, req *UpdateBillingInfoRequest) (*domain.SubscriptionAck, error)
	EditableScheduleFields() []string
	ScheduleUpdateHelpText() string
}

// UpdateBillingInfoRequest carries new billing details for a recurring contribution
type UpdateBillingInfoRequest struct {
	SubscriptionID          string
	RecurringContributionID int64
	// Privileged is set for back-office callers, which bypass the self-service setting
	Privileged bool
	Billing    domain.BillingParameters
}
