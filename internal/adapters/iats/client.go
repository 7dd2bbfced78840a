package iats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	pkghttp "github.com/kevin07696/recurring-payment-service/pkg/http"
	"github.com/kevin07696/recurring-payment-service/pkg/observability"
	"github.com/kevin07696/recurring-payment-service/pkg/resilience"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a reply is read
const maxResponseBytes = 1 << 20

// Client implements ports.GatewayClient against the iATS NetGate SOAP services
type Client struct {
	config         *ClientConfig
	httpClient     ports.HTTPClient
	logger         *zap.Logger
	circuitBreaker *resilience.CircuitBreaker
	backoff        resilience.BackoffStrategy
}

var _ ports.GatewayClient = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the pooled HTTP client
func WithHTTPClient(c ports.HTTPClient) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithBackoff replaces the retry backoff strategy
func WithBackoff(b resilience.BackoffStrategy) Option {
	return func(cl *Client) { cl.backoff = b }
}

// NewClient creates a new iATS gateway client
func NewClient(config *ClientConfig, logger *zap.Logger, opts ...Option) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	c := &Client{
		config:  config,
		logger:  logger,
		backoff: resilience.DefaultExponentialBackoff(),
	}

	breakerCfg := config.CircuitBreaker
	onChange := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		observability.SetGatewayCircuitState(int(to))
		logger.Warn("Gateway circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if onChange != nil {
			onChange(from, to)
		}
	}
	c.circuitBreaker = resilience.NewCircuitBreaker(breakerCfg)

	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), config.Timeout)
	}
	return c
}

// Request sends one call to the gateway. Approved and declined replies are
// both returned as responses; only transport and parse failures are errors.
func (c *Client) Request(ctx context.Context, call *ports.GatewayCall) (*ports.GatewayResponse, error) {
	if err := validateCall(call); err != nil {
		return nil, err
	}

	envelope, op, err := buildEnvelope(call)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidationFailed, "failed to build gateway request", err)
	}

	endpoint := c.baseURL(call.Domain) + servicePath(call.MethodType())
	method := string(call.Request.Method)

	// Card data and the password are in the envelope, so it is never logged
	c.logger.Info("Sending iATS request",
		zap.String("operation", op),
		zap.String("domain", call.Domain),
		zap.String("invoice", call.Request.Get("invoiceNum")),
	)

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	var (
		response *ports.GatewayResponse
		parseErr error
	)
	err = c.circuitBreaker.Call(func() error {
		body, status, err := c.send(ctx, endpoint, op, envelope)
		if err != nil {
			return err
		}

		parsed, perr := parseResponse(body)
		if perr != nil {
			if status >= http.StatusInternalServerError {
				return fmt.Errorf("gateway returned status %d", status)
			}
			// a reply arrived, so the gateway itself is up
			parseErr = perr
			return nil
		}
		response = parsed
		return nil
	})
	elapsed := time.Since(start)

	switch {
	case err != nil:
		outcome := "error"
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
			outcome = "circuit_open"
		}
		observability.RecordGatewayRequest(method, outcome, elapsed)
		c.logger.Error("iATS request failed",
			zap.String("operation", op),
			zap.String("circuit_state", c.circuitBreaker.State().String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("iats %s: %w", op, err)

	case parseErr != nil:
		observability.RecordGatewayRequest(method, "malformed", elapsed)
		c.logger.Error("Malformed iATS response",
			zap.String("operation", op),
			zap.Error(parseErr),
		)
		return nil, parseErr
	}

	outcome := "declined"
	if strings.HasPrefix(response.AuthorizationResult, "OK") {
		outcome = "approved"
	}
	observability.RecordGatewayRequest(method, outcome, elapsed)

	c.logger.Info("Received iATS response",
		zap.String("operation", op),
		zap.String("status", response.Status),
		zap.String("authorization_result", response.AuthorizationResult),
		zap.String("transaction_id", response.TransactionID),
		zap.Duration("elapsed", elapsed),
	)
	return response, nil
}

// send posts the envelope, retrying only when the connection could not be
// established. The request is rebuilt for every attempt.
func (c *Client) send(ctx context.Context, endpoint, op string, envelope []byte) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff.NextDelay(attempt - 1)
			c.logger.Info("Retrying iATS request with exponential backoff",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.config.MaxRetries),
				zap.Duration("backoff_delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, 0, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(envelope))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", fmt.Sprintf(`application/soap+xml; charset=utf-8; action="%s%s"`, netGateNamespace, op))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if isDialError(err) && attempt < c.config.MaxRetries {
				c.logger.Warn("Gateway connection failed", zap.Error(err), zap.Int("attempt", attempt))
				continue
			}
			return nil, 0, fmt.Errorf("failed to send request: %w", err)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
		}
		return body, resp.StatusCode, nil
	}
	return nil, 0, fmt.Errorf("failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

func (c *Client) baseURL(host string) string {
	if c.config.BaseURL != "" {
		return strings.TrimRight(c.config.BaseURL, "/")
	}
	return "https://" + host
}

// CircuitState returns the breaker state
func (c *Client) CircuitState() resilience.CircuitState {
	return c.circuitBreaker.State()
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
