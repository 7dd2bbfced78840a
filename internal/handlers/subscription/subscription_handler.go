package subscription

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/httputil"
	"github.com/kevin07696/recurring-payment-service/internal/handlers/payment"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	"go.uber.org/zap"
)

// AdminSecretHeader marks back-office callers, which may always update billing info
const AdminSecretHeader = "X-Admin-Secret"

// ProcessorLookup resolves the services bound to a processor key
type ProcessorLookup interface {
	Get(key string) (*processor.Entry, error)
}

// Handler serves recurring contribution lifecycle requests
type Handler struct {
	processors  ProcessorLookup
	adminSecret string
	logger      *zap.Logger
}

// NewHandler creates a new subscription handler. An empty adminSecret
// means no caller is privileged.
func NewHandler(processors ProcessorLookup, adminSecret string, logger *zap.Logger) *Handler {
	return &Handler{processors: processors, adminSecret: adminSecret, logger: logger}
}

// ChangeAmountRequest is the body of an amount change
type ChangeAmountRequest struct {
	Amount string `json:"amount" validate:"required,max=32"`
}

// UpdateBillingInfoRequest is the body of a billing info update
type UpdateBillingInfoRequest struct {
	payment.CardDetails
	RecurringContributionID int64 `json:"contribution_recur_id" validate:"required,gt=0"`
}

// ScheduleFieldsResponse describes the editable schedule fields
type ScheduleFieldsResponse struct {
	Fields   []string `json:"fields"`
	HelpText string   `json:"help_text"`
}

// Cancel handles POST .../subscriptions/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	ack, err := entry.Subscriptions.Cancel(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, ack)
}

// ChangeAmount handles PUT .../subscriptions/{id}/amount
func (h *Handler) ChangeAmount(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req ChangeAmountRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	ack, err := entry.Subscriptions.ChangeAmount(r.Context(), id, req.Amount)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, ack)
}

// UpdateBillingInfo handles PUT .../subscriptions/{id}/billing-info
func (h *Handler) UpdateBillingInfo(w http.ResponseWriter, r *http.Request) {
	entry, id, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req UpdateBillingInfoRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}

	update := &ports.UpdateBillingInfoRequest{
		SubscriptionID:          id,
		RecurringContributionID: req.RecurringContributionID,
		Privileged:              h.isPrivileged(r),
	}
	req.CardDetails.ApplyTo(&update.Billing)

	ack, err := entry.Subscriptions.UpdateBillingInfo(r.Context(), update)
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, ack)
}

// ScheduleFields handles GET /api/v1/subscriptions/schedule-fields
func (h *Handler) ScheduleFields(w http.ResponseWriter, r *http.Request) {
	fields := make([]string, len(domain.EditableScheduleFields))
	copy(fields, domain.EditableScheduleFields)

	httputil.WriteJSON(w, h.logger, http.StatusOK, ScheduleFieldsResponse{
		Fields:   fields,
		HelpText: domain.ScheduleUpdateHelpText,
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*processor.Entry, string, bool) {
	vars := mux.Vars(r)
	entry, err := h.processors.Get(vars["processor"])
	if err != nil {
		httputil.WriteError(w, r, h.logger, err)
		return nil, "", false
	}
	return entry, vars["id"], true
}

func (h *Handler) isPrivileged(r *http.Request) bool {
	if h.adminSecret == "" {
		return false
	}
	given := r.Header.Get(AdminSecretHeader)
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.adminSecret)) == 1
}
