package mocks

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockPaymentService mocks ports.PaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) DoDirectPayment(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, params)
	return outcome(args)
}

func (m *MockPaymentService) Charge(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, params)
	return outcome(args)
}

func (m *MockPaymentService) SetupRecurring(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, params)
	return outcome(args)
}

func (m *MockPaymentService) ChargeStoredCustomer(ctx context.Context, req *ports.StoredChargeRequest) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, req)
	return outcome(args)
}

func (m *MockPaymentService) CheckConfig(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func outcome(args mock.Arguments) (*domain.PaymentOutcome, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOutcome), args.Error(1)
}

// MockSubscriptionService mocks ports.SubscriptionService
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, subscriptionID string) (*domain.SubscriptionAck, error) {
	args := m.Called(ctx, subscriptionID)
	return ack(args)
}

func (m *MockSubscriptionService) ChangeAmount(ctx context.Context, subscriptionID, amount string) (*domain.SubscriptionAck, error) {
	args := m.Called(ctx, subscriptionID, amount)
	return ack(args)
}

func (m *MockSubscriptionService) UpdateBillingInfo(ctx context.Context, req *ports.UpdateBillingInfoRequest) (*domain.SubscriptionAck, error) {
	args := m.Called(ctx, req)
	return ack(args)
}

func (m *MockSubscriptionService) EditableScheduleFields() []string {
	return domain.EditableScheduleFields
}

func (m *MockSubscriptionService) ScheduleUpdateHelpText() string {
	return domain.ScheduleUpdateHelpText
}

func ack(args mock.Arguments) (*domain.SubscriptionAck, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionAck), args.Error(1)
}
