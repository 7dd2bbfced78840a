package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/middleware"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"github.com/kevin07696/recurring-payment-service/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, cronSecret string) (http.Handler, *mocks.MockPaymentService) {
	t.Helper()

	payments := new(mocks.MockPaymentService)
	registry := processor.NewRegistry()
	require.NoError(t, registry.Register("na", &processor.Entry{
		Processor:     domain.Processor{Name: "iATS NA", Mode: domain.ProcessorModeLive, Domain: "www.iatspayments.com"},
		Payments:      payments,
		Subscriptions: new(mocks.MockSubscriptionService),
	}))

	return NewRouter(RouterConfig{
		Processors:    registry,
		Logger:        zap.NewNop(),
		IsDevelopment: true,
		CronSecret:    cronSecret,
	}), payments
}

func TestRouter_ScheduleFields(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/schedule-fields", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_ChargeSeesCustomerIP(t *testing.T) {
	router, payments := newTestRouter(t, "")

	var seenIP string
	payments.On("Charge", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seenIP, _ = domain.CustomerIPFromContext(args.Get(0).(context.Context))
		}).
		Return(&domain.PaymentOutcome{Status: domain.OutcomeSuccess, TransactionID: "T:1"}, nil)

	body := `{"amount":"5","currency":"USD","credit_card_number":"4222222222222220","month":1,"year":2030,"credit_card_type":"Visa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/processors/na/charges", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.9:4567"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.9", seenIP)
}

func TestRouter_CronRouteOnlyWithSecret(t *testing.T) {
	withoutSecret, _ := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	withoutSecret.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cron/recurring-charges", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	withSecret, _ := newTestRouter(t, "cron")
	rec = httptest.NewRecorder()
	withSecret.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cron/recurring-charges", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MethodMismatch(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/processors/na/charges", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
