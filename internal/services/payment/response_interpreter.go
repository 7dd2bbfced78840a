package payment

import (
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

const (
	approvedPrefix         = "OK"
	unexpectedErrorMessage = "Unexpected error"
)

// InterpretResponse normalizes a gateway response for the given method.
// now is used to build the caller-visible transaction id of charges.
func InterpretResponse(resp *ports.GatewayResponse, method ports.Method, now time.Time) (*domain.TransactionResult, error) {
	if resp == nil {
		return nil, domain.WrapError(domain.ErrorCodeMalformedResponse, "empty gateway response", domain.ErrMalformedResponse)
	}
	if !resp.HasProcessResult && strings.TrimSpace(resp.Errors) == "" {
		return nil, domain.WrapError(domain.ErrorCodeMalformedResponse, "gateway response has no process result", domain.ErrMalformedResponse).
			WithDetail("method", string(method))
	}

	authResult := strings.TrimSpace(resp.AuthorizationResult)
	result := &domain.TransactionResult{
		Success: resp.HasProcessResult && strings.HasPrefix(authResult, approvedPrefix),
	}

	if !result.Success {
		result.RemoteID = strings.TrimSpace(resp.TransactionID)
		result.ReasonMessage = failureReason(authResult, resp.Errors)
		return result, nil
	}

	if method.Type() == ports.MethodTypeCustomer {
		code := strings.TrimSpace(resp.CustomerCode)
		if code == "" && method.IsTokenCreation() {
			return nil, domain.WrapError(domain.ErrorCodeMalformedResponse, "approved response has no customer code", domain.ErrMalformedResponse)
		}
		result.RemoteID = code
		return result, nil
	}

	result.RemoteID = strings.TrimSpace(resp.TransactionID)
	result.TransactionID = result.RemoteID + ":" + strconv.FormatInt(now.Unix(), 10)
	return result, nil
}

func failureReason(authResult, gatewayErrors string) string {
	if reason := RejectReason(authResult); reason != "" {
		return reason
	}
	if authResult != "" {
		return authResult
	}
	if e := strings.TrimSpace(gatewayErrors); e != "" {
		return e
	}
	return unexpectedErrorMessage
}
