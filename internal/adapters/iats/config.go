package iats

import (
	"time"

	"github.com/kevin07696/recurring-payment-service/pkg/resilience"
)

// ClientConfig contains configuration for the iATS NetGate SOAP client
type ClientConfig struct {
	// BaseURL replaces "https://{domain}" when set. Used for tests and proxies.
	BaseURL string

	// Timeout bounds one call including retries
	Timeout time.Duration

	// MaxRetries applies to connection failures only. A request that reached
	// the gateway is never resent, since a charge may already have been made.
	MaxRetries int

	CircuitBreaker resilience.CircuitBreakerConfig
}

// DefaultClientConfig returns default configuration for the iATS client
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}
}
