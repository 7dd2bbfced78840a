package cron

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/httputil"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"go.uber.org/zap"
)

// CronSecretHeader authenticates scheduler requests
const CronSecretHeader = "X-Cron-Secret"

// ProcessorLookup resolves the services bound to a processor key
type ProcessorLookup interface {
	Get(key string) (*processor.Entry, error)
}

// RecurringChargeHandler handles scheduler calls that charge stored customer codes
type RecurringChargeHandler struct {
	processors ProcessorLookup
	logger     *zap.Logger
	cronSecret string
}

// NewRecurringChargeHandler creates a new recurring charge cron handler
func NewRecurringChargeHandler(processors ProcessorLookup, logger *zap.Logger, cronSecret string) *RecurringChargeHandler {
	return &RecurringChargeHandler{
		processors: processors,
		logger:     logger,
		cronSecret: cronSecret,
	}
}

// RecurringChargeRequest is one scheduled installment
type RecurringChargeRequest struct {
	Processor               string `json:"processor" validate:"required"`
	RecurringContributionID int64  `json:"contribution_recur_id" validate:"required,gt=0"`
	Amount                  string `json:"amount" validate:"required,max=32"`
	Currency                string `json:"currency" validate:"required,len=3,alpha"`
	InvoiceID               string `json:"invoice_id" validate:"max=64"`
	FrequencyInterval       int    `json:"frequency_interval" validate:"gte=0"`
	FrequencyUnit           string `json:"frequency_unit" validate:"omitempty,oneof=day week month year"`
}

// RecurringChargeResponse reports the charged installment
type RecurringChargeResponse struct {
	Success         bool       `json:"success"`
	TransactionID   string     `json:"trxn_id"`
	NextScheduledAt *time.Time `json:"next_sched_contribution,omitempty"`
	ProcessedAt     string     `json:"processed_at"`
}

// ChargeRecurring handles POST /cron/recurring-charges
func (h *RecurringChargeHandler) ChargeRecurring(w http.ResponseWriter, r *http.Request) {
	if !h.authenticateRequest(r) {
		h.logger.Warn("Unauthorized cron request", zap.String("remote_addr", r.RemoteAddr))
		httputil.WriteJSON(w, h.logger, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: httputil.ErrorDetail{Code: "UNAUTHORIZED", Message: "unauthorized"},
		})
		return
	}

	var req RecurringChargeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	entry, err := h.processors.Get(req.Processor)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	outcome, err := entry.Payments.ChargeStoredCustomer(r.Context(), &ports.StoredChargeRequest{
		RecurringContributionID: req.RecurringContributionID,
		Amount:                  req.Amount,
		CurrencyID:              req.Currency,
		InvoiceID:               req.InvoiceID,
		Interval: domain.RecurrenceInterval{
			Value: req.FrequencyInterval,
			Unit:  domain.IntervalUnit(req.FrequencyUnit),
		}.Normalize(),
	})
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Recurring installment charged",
		zap.String("processor", entry.Processor.Name),
		zap.Int64("contribution_recur_id", req.RecurringContributionID),
		zap.String("transaction_id", outcome.TransactionID),
	)

	httputil.WriteJSON(w, h.logger, http.StatusOK, RecurringChargeResponse{
		Success:         true,
		TransactionID:   outcome.TransactionID,
		NextScheduledAt: outcome.NextScheduledAt,
		ProcessedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// authenticateRequest accepts the X-Cron-Secret header or a bearer token
func (h *RecurringChargeHandler) authenticateRequest(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	if secretMatches(r.Header.Get(CronSecretHeader), h.cronSecret) {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && secretMatches(token, h.cronSecret)
}

func secretMatches(given, want string) bool {
	return given != "" && subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}
