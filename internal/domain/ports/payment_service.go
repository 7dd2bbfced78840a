package ports

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// PaymentService orchestrates card charges and recurring setup for one processor
type PaymentService interface {
	// DoDirectPayment dispatches to Charge or SetupRecurring depending on the record
	DoDirectPayment(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error)

	// Charge runs a one-time card charge
	Charge(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error)

	// SetupRecurring creates and stores a customer code, then charges now or defers
	SetupRecurring(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error)

	// ChargeStoredCustomer charges a previously stored customer code
	ChargeStoredCustomer(ctx context.Context, req *StoredChargeRequest) (*domain.PaymentOutcome, error)

	// CheckConfig returns the list of configuration problems, empty when usable
	CheckConfig(ctx context.Context) []string
}

// StoredChargeRequest is a scheduled charge against a recurring contribution's token
type StoredChargeRequest struct {
	RecurringContributionID int64
	Amount                  string
	CurrencyID              string
	InvoiceID               string
	Interval                domain.RecurrenceInterval
}
