package payment

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/httputil"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"go.uber.org/zap"
)

// ProcessorLookup resolves the services bound to a processor key
type ProcessorLookup interface {
	Get(key string) (*processor.Entry, error)
}

// Handler serves charge and recurring setup requests
type Handler struct {
	processors ProcessorLookup
	logger     *zap.Logger
}

// NewHandler creates a new payment handler
func NewHandler(processors ProcessorLookup, logger *zap.Logger) *Handler {
	return &Handler{processors: processors, logger: logger}
}

// Charge handles POST /api/v1/processors/{processor}/charges
func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	entry, err := h.processors.Get(mux.Vars(r)["processor"])
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	var req ChargeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	outcome, err := entry.Payments.Charge(r.Context(), req.BillingParameters())
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Charge completed",
		zap.String("processor", entry.Processor.Name),
		zap.String("transaction_id", outcome.TransactionID),
	)
	httputil.WriteJSON(w, h.logger, http.StatusOK, newPaymentResponse(outcome))
}

// SetupRecurring handles POST /api/v1/processors/{processor}/recurring.
// A deferred first charge answers 202.
func (h *Handler) SetupRecurring(w http.ResponseWriter, r *http.Request) {
	entry, err := h.processors.Get(mux.Vars(r)["processor"])
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	var req RecurringRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	outcome, err := entry.Payments.SetupRecurring(r.Context(), req.BillingParameters())
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	status := http.StatusOK
	if outcome.IsPending() {
		status = http.StatusAccepted
	}

	h.logger.Info("Recurring setup completed",
		zap.String("processor", entry.Processor.Name),
		zap.Int64("contribution_recur_id", req.RecurringContributionID),
		zap.String("status", string(outcome.Status)),
	)
	httputil.WriteJSON(w, h.logger, status, newPaymentResponse(outcome))
}
