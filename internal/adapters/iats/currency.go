package iats

import (
	"strings"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

// Gateway hosts
const (
	DomainNorthAmerica = "www.iatspayments.com"
	DomainUK           = "www.uk.iatspayments.com"
)

var domainCurrencies = map[string][]string{
	DomainNorthAmerica: {"USD", "CAD"},
	DomainUK:           {"AUD", "CAD", "CHF", "EUR", "GBP", "HKD", "JPY", "NZD", "SEK", "SGD", "USD"},
}

// SupportedCurrencies returns the currencies the gateway host accepts
func SupportedCurrencies(host string) []string {
	return domainCurrencies[strings.ToLower(host)]
}

// validateCall checks the host and, for process methods, that the host accepts
// the currency. Customer code methods carry no amount so the currency is not checked.
func validateCall(call *ports.GatewayCall) error {
	if call == nil || call.Request == nil {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, "gateway call has no request")
	}

	currencies, ok := domainCurrencies[strings.ToLower(call.Domain)]
	if !ok {
		return domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "unknown gateway domain").
			WithDetail("domain", call.Domain)
	}

	if missing := call.Credentials.Missing(); len(missing) > 0 {
		return domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "missing processor credentials").
			WithDetail("missing", missing)
	}

	if call.MethodType() != ports.MethodTypeProcess {
		return nil
	}

	currency := strings.ToUpper(strings.TrimSpace(call.CurrencyID))
	for _, c := range currencies {
		if c == currency {
			return nil
		}
	}
	return domain.NewDomainError(domain.ErrorCodeValidationFailed, "currency not supported by gateway domain").
		WithDetail("currency", call.CurrencyID).
		WithDetail("domain", call.Domain)
}
