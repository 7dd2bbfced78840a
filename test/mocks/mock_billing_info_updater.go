package mocks

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockBillingInfoUpdater mocks ports.BillingInfoUpdater
type MockBillingInfoUpdater struct {
	mock.Mock
}

func (m *MockBillingInfoUpdater) Update(ctx context.Context, update *ports.BillingInfoUpdate) (*ports.BillingInfoUpdateResult, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.BillingInfoUpdateResult), args.Error(1)
}
