package mocks

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCustomerTokenStore mocks ports.CustomerTokenStore
type MockCustomerTokenStore struct {
	mock.Mock
}

func (m *MockCustomerTokenStore) Save(ctx context.Context, token *domain.CustomerToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockCustomerTokenStore) FindByRecurringID(ctx context.Context, recurringID int64) (*domain.CustomerToken, error) {
	args := m.Called(ctx, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerToken), args.Error(1)
}
