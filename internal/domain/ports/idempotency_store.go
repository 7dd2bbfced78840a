package ports

import (
	"context"
	"errors"
)

// ErrIdempotencyKeyInFlight is returned by Reserve when another request holds the key
var ErrIdempotencyKeyInFlight = errors.New("idempotency key is being processed")

// StoredResponse is a completed HTTP response kept for replay
type StoredResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers responses by idempotency key so a retried charge
// request is answered without calling the gateway again
type IdempotencyStore interface {
	// Get returns the stored response, or nil when the key is unknown or still in flight
	Get(ctx context.Context, key string) (*StoredResponse, error)
	// Reserve claims the key; ErrIdempotencyKeyInFlight if it is already claimed
	Reserve(ctx context.Context, key string) error
	// Complete stores the response and replaces the reservation
	Complete(ctx context.Context, key string, resp *StoredResponse) error
	// Release drops a reservation so the request can be retried
	Release(ctx context.Context, key string) error
}
