package mocks

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockGatewayClient mocks ports.GatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) Request(ctx context.Context, call *ports.GatewayCall) (*ports.GatewayResponse, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayResponse), args.Error(1)
}

// ForMethod matches a gateway call by request method
func ForMethod(method ports.Method) interface{} {
	return mock.MatchedBy(func(call *ports.GatewayCall) bool {
		return call != nil && call.Request != nil && call.Request.Method == method
	})
}
