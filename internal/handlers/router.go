package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/cron"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/payment"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/subscription"
	"github.com/kevin07696/recurring-payment-service/internal/middleware"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"github.com/kevin07696/recurring-payment-service/pkg/observability"
	"github.com/kevin07696/recurring-payment-service/pkg/resilience"
	"go.uber.org/zap"
)

// RouterConfig carries everything the HTTP surface needs
type RouterConfig struct {
	Processors *processor.Registry
	Logger     *zap.Logger
	Timeouts   *resilience.TimeoutConfig

	// Idempotency is optional; charge endpoints skip replay protection without it
	Idempotency *middleware.Idempotency
	// RateLimiter is optional
	RateLimiter *middleware.RateLimiter

	TrustProxy    bool
	IsDevelopment bool
	CronSecret    string
	AdminSecret   string
}

// NewRouter builds the public HTTP handler
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Timeouts == nil {
		cfg.Timeouts = resilience.DefaultTimeoutConfig()
	}

	paymentHandler := payment.NewHandler(cfg.Processors, cfg.Logger)
	subscriptionHandler := subscription.NewHandler(cfg.Processors, cfg.AdminSecret, cfg.Logger)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.NewSecurityHeaders(cfg.IsDevelopment).Middleware)
	r.Use(observability.HTTPMetricsMiddleware)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(withTimeout(cfg.Timeouts.HandlerContext))
	api.Use(middleware.CustomerIP(cfg.TrustProxy))

	api.HandleFunc("/subscriptions/schedule-fields", subscriptionHandler.ScheduleFields).Methods(http.MethodGet)

	charges := api.PathPrefix("/processors/{processor}").Subrouter()
	if cfg.Idempotency != nil {
		charges.Use(idempotentPOST(cfg.Idempotency))
	}
	charges.HandleFunc("/charges", paymentHandler.Charge).Methods(http.MethodPost)
	charges.HandleFunc("/recurring", paymentHandler.SetupRecurring).Methods(http.MethodPost)
	charges.HandleFunc("/subscriptions/{id}/cancel", subscriptionHandler.Cancel).Methods(http.MethodPost)
	charges.HandleFunc("/subscriptions/{id}/amount", subscriptionHandler.ChangeAmount).Methods(http.MethodPut)
	charges.HandleFunc("/subscriptions/{id}/billing-info", subscriptionHandler.UpdateBillingInfo).Methods(http.MethodPut)

	if cfg.CronSecret != "" {
		cronHandler := cron.NewRecurringChargeHandler(cfg.Processors, cfg.Logger, cfg.CronSecret)
		cronRoutes := r.PathPrefix("/cron").Subrouter()
		cronRoutes.Use(withTimeout(cfg.Timeouts.CronContext))
		cronRoutes.HandleFunc("/recurring-charges", cronHandler.ChargeRecurring).Methods(http.MethodPost)
	}

	return r
}

// idempotentPOST applies replay protection to POST routes only
func idempotentPOST(m *middleware.Idempotency) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		protected := m.Middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				protected.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withTimeout(deadline func(context.Context) (context.Context, context.CancelFunc)) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := deadline(r.Context())
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
