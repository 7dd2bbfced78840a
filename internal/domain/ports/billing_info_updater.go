package ports

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// BillingInfoUpdate replaces the card and address behind an existing customer code
type BillingInfoUpdate struct {
	CustomerCode string
	Credentials  domain.Credentials
	Domain       string
	Billing      domain.BillingParameters
}

// BillingInfoUpdateResult is the structured outcome of a billing update
type BillingInfoUpdateResult struct {
	Success     bool
	FailureCode string
	Message     string
}

// BillingInfoUpdater updates the billing details stored at the gateway
type BillingInfoUpdater interface {
	Update(ctx context.Context, update *BillingInfoUpdate) (*BillingInfoUpdateResult, error)
}
