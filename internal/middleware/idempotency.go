package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is sent by callers that may retry a charge
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the store
	IdempotentReplayHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// releasableCodes fail before any gateway call, so a retry cannot charge twice.
// Every other outcome, including timeouts and unreadable gateway replies, is
// stored and replayed.
var releasableCodes = map[domain.ErrorCode]bool{
	domain.ErrorCodeMissingConfiguration:  true,
	domain.ErrorCodeProcessorNotFound:     true,
	domain.ErrorCodeTokenStoreUnavailable: true,
}

// Idempotency replays the stored response for a repeated Idempotency-Key so a
// retried charge never reaches the gateway twice. Requests without the header
// pass through. Store outages fail open.
type Idempotency struct {
	store  ports.IdempotencyStore
	logger *zap.Logger
}

// NewIdempotency creates the idempotency middleware
func NewIdempotency(store ports.IdempotencyStore, logger *zap.Logger) *Idempotency {
	return &Idempotency{store: store, logger: logger}
}

// Middleware wraps a handler
func (m *Idempotency) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			writeJSONError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", "Idempotency-Key is too long")
			return
		}

		scoped := r.Method + " " + r.URL.Path + " " + key
		ctx := r.Context()

		stored, err := m.store.Get(ctx, scoped)
		if err != nil {
			m.logger.Warn("Idempotency store unavailable, processing without replay protection", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if stored != nil {
			replay(w, stored)
			return
		}

		if err := m.store.Reserve(ctx, scoped); err != nil {
			if errors.Is(err, ports.ErrIdempotencyKeyInFlight) {
				writeJSONError(w, r, http.StatusConflict, "IDEMPOTENCY_CONFLICT", "a request with this Idempotency-Key is still being processed")
				return
			}
			m.logger.Warn("Idempotency reservation failed, processing without replay protection", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		rec := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// the outcome must be stored even if the caller went away
		storeCtx := context.WithoutCancel(ctx)
		if releasable(rec.body.Bytes()) {
			if err := m.store.Release(storeCtx, scoped); err != nil {
				m.logger.Warn("Failed to release idempotency key", zap.Error(err))
			}
			return
		}

		err = m.store.Complete(storeCtx, scoped, &ports.StoredResponse{
			StatusCode:  rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			m.logger.Error("Failed to store idempotent response", zap.Error(err))
		}
	})
}

// releasable reports whether the response carries an error code that is known
// to precede any gateway call
func releasable(body []byte) bool {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	return releasableCodes[domain.ErrorCode(parsed.Error.Code)]
}

func replay(w http.ResponseWriter, stored *ports.StoredResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(stored.StatusCode)
	_, _ = w.Write(stored.Body)
}

type capturingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (c *capturingWriter) WriteHeader(code int) {
	if !c.wroteHeader {
		c.status = code
		c.wroteHeader = true
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *capturingWriter) Write(p []byte) (int, error) {
	c.wroteHeader = true
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.RequestID = RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
