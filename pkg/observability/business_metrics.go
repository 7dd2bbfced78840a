package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Payment transaction metrics
	paymentTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_transactions_total",
		Help: "Total number of payment transactions sent to the gateway",
	}, []string{
		"processor", // configured processor name
		"method",    // cc, cc_with_customer_code
		"status",    // success, pending, declined, error
	})

	paymentAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_amount_cents_total",
		Help: "Total approved payment amount in cents",
	}, []string{
		"processor",
		"currency",
	})

	// Payment processing duration (end-to-end, including the token setup call)
	paymentProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_processing_duration_seconds",
		Help:    "Total time to process a payment orchestration call",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"processor",
		"flow", // one_time, recurring, stored
		"status",
	})

	// Customer code metrics
	customerCodesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_codes_created_total",
		Help: "Total customer codes created and stored",
	}, []string{
		"processor",
	})

	recurringSetupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recurring_setups_total",
		Help: "Total recurring contribution setups by first charge outcome",
	}, []string{
		"processor",
		"outcome", // charged, deferred, failed
	})

	billingInfoUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_info_updates_total",
		Help: "Total billing info update attempts",
	}, []string{
		"processor",
		"status", // success, failed
	})
)

// RecordPaymentTransaction records one gateway charge attempt.
// Only successful charges count toward the amount total.
func RecordPaymentTransaction(processor, method, status string, amountCents int64, currency string) {
	paymentTransactionsTotal.WithLabelValues(processor, method, status).Inc()

	if status == "success" {
		paymentAmountCents.WithLabelValues(processor, currency).Add(float64(amountCents))
	}
}

// RecordPaymentDuration records end-to-end orchestration time
func RecordPaymentDuration(processor, flow, status string, duration float64) {
	paymentProcessingDuration.WithLabelValues(processor, flow, status).Observe(duration)
}

// RecordCustomerCodeCreated records a stored customer code
func RecordCustomerCodeCreated(processor string) {
	customerCodesCreated.WithLabelValues(processor).Inc()
}

// RecordRecurringSetup records the outcome of a recurring setup
func RecordRecurringSetup(processor, outcome string) {
	recurringSetupsTotal.WithLabelValues(processor, outcome).Inc()
}

// RecordBillingInfoUpdate records a billing info update attempt
func RecordBillingInfoUpdate(processor, status string) {
	billingInfoUpdatesTotal.WithLabelValues(processor, status).Inc()
}
