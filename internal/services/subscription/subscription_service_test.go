package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*Service, *mocks.MockCustomerTokenStore, *mocks.MockBillingInfoUpdater, *mocks.StaticConfigProvider) {
	t.Helper()

	processor, err := domain.NewProcessor("iATS Payments", domain.ProcessorModeLive, "https://www.iatspayments.com")
	require.NoError(t, err)

	tokens := new(mocks.MockCustomerTokenStore)
	updater := new(mocks.MockBillingInfoUpdater)
	config := mocks.NewStaticConfigProvider()

	return NewService(processor, tokens, updater, config, mocks.NewMockLogger()), tokens, updater, config
}

func billingRequest(privileged bool) *ports.UpdateBillingInfoRequest {
	return &ports.UpdateBillingInfoRequest{
		SubscriptionID:          "sub-55",
		RecurringContributionID: 55,
		Privileged:              privileged,
		Billing: domain.BillingParameters{
			CardNumber:  "5111111111111118",
			ExpiryMonth: 1,
			ExpiryYear:  2030,
			CardBrand:   domain.CardBrandMasterCard,
			FirstName:   "Ada",
			LastName:    "Lovelace",
		},
	}
}

func TestService_Cancel(t *testing.T) {
	svc, _, _, _ := setupService(t)

	ack, err := svc.Cancel(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, "sub-1", ack.SubscriptionID)

	_, err = svc.Cancel(context.Background(), " ")
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))
}

func TestService_ChangeAmount(t *testing.T) {
	svc, _, _, _ := setupService(t)

	ack, err := svc.ChangeAmount(context.Background(), "sub-1", "$25.50")
	require.NoError(t, err)
	assert.True(t, ack.Success)

	_, err = svc.ChangeAmount(context.Background(), "sub-1", "-3")
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationAmountInvalid))
}

func TestService_UpdateBillingInfo_Success(t *testing.T) {
	svc, tokens, updater, _ := setupService(t)

	tokens.On("FindByRecurringID", mock.Anything, int64(55)).
		Return(&domain.CustomerToken{CustomerCode: "A1B2C3", RecurringContributionID: 55}, nil).Once()
	updater.On("Update", mock.Anything, mock.MatchedBy(func(u *ports.BillingInfoUpdate) bool {
		return u.CustomerCode == "A1B2C3" &&
			u.Domain == "www.iatspayments.com" &&
			u.Credentials.AgentCode == "TEST88" &&
			u.Billing.CardNumber == "5111111111111118"
	})).Return(&ports.BillingInfoUpdateResult{Success: true}, nil).Once()

	ack, err := svc.UpdateBillingInfo(context.Background(), billingRequest(true))
	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, "sub-55", ack.SubscriptionID)

	tokens.AssertExpectations(t)
	updater.AssertExpectations(t)
}

func TestService_UpdateBillingInfo_Rejected(t *testing.T) {
	svc, tokens, updater, _ := setupService(t)

	tokens.On("FindByRecurringID", mock.Anything, int64(55)).
		Return(&domain.CustomerToken{CustomerCode: "A1B2C3"}, nil).Once()
	updater.On("Update", mock.Anything, mock.Anything).
		Return(&ports.BillingInfoUpdateResult{FailureCode: "41", Message: "Invalid expiry date"}, nil).Once()

	_, err := svc.UpdateBillingInfo(context.Background(), billingRequest(true))
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrorCodeBillingUpdateFailed, domainErr.Code)
	assert.Equal(t, "Invalid expiry date", domainErr.Message)
	assert.Equal(t, "41", domainErr.Details["failure_code"])
}

func TestService_UpdateBillingInfo_TransportError(t *testing.T) {
	svc, tokens, updater, _ := setupService(t)

	tokens.On("FindByRecurringID", mock.Anything, int64(55)).
		Return(&domain.CustomerToken{CustomerCode: "A1B2C3"}, nil).Once()
	updater.On("Update", mock.Anything, mock.Anything).Return(nil, errors.New("i/o timeout")).Once()

	_, err := svc.UpdateBillingInfo(context.Background(), billingRequest(true))
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeGatewayUnreachable))
}

func TestService_UpdateBillingInfo_Gating(t *testing.T) {
	tests := []struct {
		name        string
		privileged  bool
		selfService bool
		allowed     bool
	}{
		{"privileged caller", true, false, true},
		{"self service enabled", false, true, true},
		{"self service disabled", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tokens, updater, config := setupService(t)
			config.SelfServiceUpdate = tt.selfService

			assert.Equal(t, tt.allowed, svc.IsBillingUpdateSupported(context.Background(), tt.privileged))

			if tt.allowed {
				tokens.On("FindByRecurringID", mock.Anything, int64(55)).
					Return(&domain.CustomerToken{CustomerCode: "A1B2C3"}, nil).Once()
				updater.On("Update", mock.Anything, mock.Anything).
					Return(&ports.BillingInfoUpdateResult{Success: true}, nil).Once()
			}

			_, err := svc.UpdateBillingInfo(context.Background(), billingRequest(tt.privileged))
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, domain.IsDomainError(err, domain.ErrorCodeNotSupported))
			tokens.AssertNotCalled(t, "FindByRecurringID", mock.Anything, mock.Anything)
			updater.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestService_UpdateBillingInfo_TokenErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorCode
	}{
		{"no stored code", domain.ErrCustomerTokenNotFound, domain.ErrorCodeTokenNotFound},
		{"store down", errors.New("connection refused"), domain.ErrorCodeTokenStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tokens, updater, _ := setupService(t)
			tokens.On("FindByRecurringID", mock.Anything, int64(55)).Return(nil, tt.err).Once()

			_, err := svc.UpdateBillingInfo(context.Background(), billingRequest(true))
			assert.Equal(t, tt.expected, domain.GetErrorCode(err))
			updater.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestService_UpdateBillingInfo_MissingCredentials(t *testing.T) {
	svc, tokens, _, config := setupService(t)
	config.Credentials = domain.Credentials{}

	_, err := svc.UpdateBillingInfo(context.Background(), billingRequest(true))
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeMissingConfiguration))
	tokens.AssertNotCalled(t, "FindByRecurringID", mock.Anything, mock.Anything)
}

func TestService_EditableScheduleFields(t *testing.T) {
	svc, _, _, _ := setupService(t)

	fields := svc.EditableScheduleFields()
	assert.Equal(t, []string{"amount", "installments", "next_sched_contribution_date"}, fields)

	fields[0] = "frequency_unit"
	assert.Equal(t, "amount", svc.EditableScheduleFields()[0])
	assert.NotEmpty(t, svc.ScheduleUpdateHelpText())
}
