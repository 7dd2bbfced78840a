package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/middleware"
	"go.uber.org/zap"
)

// ErrorCodeInternal is reported for errors that carry no domain code
const ErrorCodeInternal = "INTERNAL_ERROR"

var statusByCode = map[domain.ErrorCode]int{
	domain.ErrorCodeValidationFailed:        http.StatusBadRequest,
	domain.ErrorCodeValidationAmountInvalid: http.StatusBadRequest,
	domain.ErrorCodeUnsupportedCardBrand:    http.StatusBadRequest,
	domain.ErrorCodeProcessorNotFound:       http.StatusNotFound,
	domain.ErrorCodeTokenNotFound:           http.StatusNotFound,
	domain.ErrorCodeNotSupported:            http.StatusForbidden,
	domain.ErrorCodeMissingConfiguration:    http.StatusServiceUnavailable,
	domain.ErrorCodeGatewayDeclined:         http.StatusPaymentRequired,
	domain.ErrorCodeBillingUpdateFailed:     http.StatusUnprocessableEntity,
	domain.ErrorCodeGatewayUnreachable:      http.StatusBadGateway,
	domain.ErrorCodeMalformedResponse:       http.StatusBadGateway,
	domain.ErrorCodeTokenPersistenceFailed:  http.StatusInternalServerError,
	domain.ErrorCodeTokenStoreUnavailable:   http.StatusInternalServerError,
	domain.ErrorCodeSchedulingError:         http.StatusInternalServerError,
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail describes one error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	if status, ok := statusByCode[domain.GetErrorCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// WriteError writes err as an ErrorResponse. Only the domain message is
// exposed; wrapped causes stay in the log.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{RequestID: middleware.RequestIDFromContext(r.Context())}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp.Error.Code = string(domainErr.Code)
		resp.Error.Message = domainErr.Message
		if reason, ok := domainErr.Details["reason"].(string); ok {
			resp.Error.Reason = reason
		}
	} else {
		resp.Error.Code = ErrorCodeInternal
		resp.Error.Message = "internal error"
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.String("request_id", resp.RequestID),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}

	WriteJSON(w, logger, status, resp)
}
