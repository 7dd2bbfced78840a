package subscription

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"github.com/kevin07696/recurring-payment-service/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const billingInfoBody = `{
	"contribution_recur_id": 7,
	"credit_card_number": "4111111111111111",
	"month": 1,
	"year": 2031,
	"credit_card_type": "Visa",
	"billing_first_name": "Ada",
	"postal_code": "M5V 2T6"
}`

func setup(t *testing.T) (*mux.Router, *mocks.MockSubscriptionService) {
	t.Helper()

	subs := new(mocks.MockSubscriptionService)
	registry := processor.NewRegistry()
	require.NoError(t, registry.Register("na", &processor.Entry{
		Processor:     domain.Processor{Name: "iATS NA", Mode: domain.ProcessorModeLive, Domain: "www.iatspayments.com"},
		Payments:      new(mocks.MockPaymentService),
		Subscriptions: subs,
	}))

	h := NewHandler(registry, "s3cret", zap.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/subscriptions/schedule-fields", h.ScheduleFields).Methods(http.MethodGet)
	r.HandleFunc("/processors/{processor}/subscriptions/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/processors/{processor}/subscriptions/{id}/amount", h.ChangeAmount).Methods(http.MethodPut)
	r.HandleFunc("/processors/{processor}/subscriptions/{id}/billing-info", h.UpdateBillingInfo).Methods(http.MethodPut)
	return r, subs
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCancel(t *testing.T) {
	r, subs := setup(t)
	subs.On("Cancel", mock.Anything, "sub-9").
		Return(&domain.SubscriptionAck{SubscriptionID: "sub-9", Success: true, Message: "You have cancelled this recurring contribution."}, nil)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/processors/na/subscriptions/sub-9/cancel", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var ack domain.SubscriptionAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.True(t, ack.Success)
	assert.Equal(t, "sub-9", ack.SubscriptionID)
}

func TestChangeAmount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "accepted", body: `{"amount":"15.50"}`, wantStatus: http.StatusOK},
		{name: "missing amount", body: `{}`, wantStatus: http.StatusBadRequest},
		{
			name:       "invalid amount",
			body:       `{"amount":"abc"}`,
			serviceErr: domain.NewDomainError(domain.ErrorCodeValidationAmountInvalid, "invalid amount"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, subs := setup(t)
			if tt.serviceErr != nil {
				subs.On("ChangeAmount", mock.Anything, "sub-9", mock.Anything).Return(nil, tt.serviceErr)
			} else {
				subs.On("ChangeAmount", mock.Anything, "sub-9", "15.50").
					Return(&domain.SubscriptionAck{SubscriptionID: "sub-9", Success: true}, nil)
			}

			req := httptest.NewRequest(http.MethodPut, "/processors/na/subscriptions/sub-9/amount", strings.NewReader(tt.body))
			rec := serve(r, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUpdateBillingInfo_PrivilegeFromAdminSecret(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		wantPrivileged bool
	}{
		{name: "no header", secret: "", wantPrivileged: false},
		{name: "wrong secret", secret: "guess", wantPrivileged: false},
		{name: "admin", secret: "s3cret", wantPrivileged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, subs := setup(t)
			subs.On("UpdateBillingInfo", mock.Anything, mock.MatchedBy(func(req *ports.UpdateBillingInfoRequest) bool {
				return req.SubscriptionID == "sub-9" &&
					req.RecurringContributionID == 7 &&
					req.Privileged == tt.wantPrivileged &&
					req.Billing.CardLastFour() == "1111" &&
					req.Billing.PostalCode == "M5V 2T6"
			})).Return(&domain.SubscriptionAck{SubscriptionID: "sub-9", Success: true}, nil)

			req := httptest.NewRequest(http.MethodPut, "/processors/na/subscriptions/sub-9/billing-info", strings.NewReader(billingInfoBody))
			if tt.secret != "" {
				req.Header.Set(AdminSecretHeader, tt.secret)
			}
			rec := serve(r, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			subs.AssertExpectations(t)
		})
	}
}

func TestUpdateBillingInfo_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "self service disabled",
			err:        domain.NewDomainError(domain.ErrorCodeNotSupported, "self-service billing updates are disabled"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no token",
			err:        domain.NewDomainError(domain.ErrorCodeTokenNotFound, "no customer code stored for recurring contribution"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "gateway rejected update",
			err:        domain.NewDomainError(domain.ErrorCodeBillingUpdateFailed, "Invalid expiry date"),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, subs := setup(t)
			subs.On("UpdateBillingInfo", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPut, "/processors/na/subscriptions/sub-9/billing-info", strings.NewReader(billingInfoBody))
			rec := serve(r, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestScheduleFields(t *testing.T) {
	r, _ := setup(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/subscriptions/schedule-fields", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body ScheduleFieldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.EditableScheduleFields, body.Fields)
	assert.NotContains(t, body.Fields, "frequency_interval")
	assert.Contains(t, body.HelpText, "You can not change the contribution frequency")
}
