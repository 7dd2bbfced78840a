package subscription

import (
	"context"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/internal/services/payment"
	"github.com/kevin07696/recurring-payment-service/pkg/timeutil"
)

var _ ports.BillingInfoUpdater = (*GatewayBillingInfoUpdater)(nil)

// GatewayBillingInfoUpdater updates the card and address stored behind a
// customer code with an update_credit_card_customer gateway call
type GatewayBillingInfoUpdater struct {
	gateway ports.GatewayClient
	now     func() time.Time
}

// NewGatewayBillingInfoUpdater creates a billing info updater
func NewGatewayBillingInfoUpdater(gateway ports.GatewayClient) *GatewayBillingInfoUpdater {
	return &GatewayBillingInfoUpdater{gateway: gateway, now: timeutil.Now}
}

// Update sends the new billing details. Declines come back as an unsuccessful
// result; transport and parse failures come back as errors.
func (u *GatewayBillingInfoUpdater) Update(ctx context.Context, update *ports.BillingInfoUpdate) (*ports.BillingInfoUpdateResult, error) {
	if update == nil || update.CustomerCode == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "customer code is required")
	}

	req, err := payment.TranslateRequest(&update.Billing, ports.MethodUpdateCreditCardCustomer)
	if err != nil {
		return nil, err
	}
	req.Set(payment.FieldCustomerCode, update.CustomerCode)
	if ip, ok := domain.CustomerIPFromContext(ctx); ok {
		req.Set(payment.FieldCustomerIP, ip)
	}

	resp, err := u.gateway.Request(ctx, &ports.GatewayCall{
		Credentials: update.Credentials,
		Domain:      update.Domain,
		CurrencyID:  update.Billing.CurrencyID,
		Request:     req,
	})
	if err != nil {
		return nil, err
	}

	result, err := payment.InterpretResponse(resp, req.Method, u.now())
	if err != nil {
		return nil, err
	}
	if result.Success {
		return &ports.BillingInfoUpdateResult{Success: true, Message: "OK"}, nil
	}

	code, _ := payment.RejectCode(resp.AuthorizationResult)
	return &ports.BillingInfoUpdateResult{
		FailureCode: code,
		Message:     result.ReasonMessage,
	}, nil
}
