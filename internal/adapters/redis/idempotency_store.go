package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "idempotency:"
	inFlightValue = "in-flight"
)

// IdempotencyStoreConfig controls key lifetimes
type IdempotencyStoreConfig struct {
	// ResponseTTL is how long completed responses are replayed
	ResponseTTL time.Duration
	// ReservationTTL frees a key whose request died without completing
	ReservationTTL time.Duration
}

// DefaultIdempotencyStoreConfig returns default key lifetimes
func DefaultIdempotencyStoreConfig() IdempotencyStoreConfig {
	return IdempotencyStoreConfig{
		ResponseTTL:    24 * time.Hour,
		ReservationTTL: 2 * time.Minute,
	}
}

// IdempotencyStore implements ports.IdempotencyStore on Redis
type IdempotencyStore struct {
	client goredis.UniversalClient
	config IdempotencyStoreConfig
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a Redis backed idempotency store
func NewIdempotencyStore(client goredis.UniversalClient, config IdempotencyStoreConfig) *IdempotencyStore {
	return &IdempotencyStore{client: client, config: config}
}

// NewClient parses a redis:// URL and verifies the connection
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the stored response for key
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	if string(raw) == inFlightValue {
		return nil, nil
	}

	var resp ports.StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, nil
}

// Reserve claims key with SET NX
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) error {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, inFlightValue, s.config.ReservationTTL).Result()
	if err != nil {
		return fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !ok {
		return ports.ErrIdempotencyKeyInFlight
	}
	return nil
}

// Complete stores resp under key
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp *ports.StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode stored response: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, payload, s.config.ResponseTTL).Err(); err != nil {
		return fmt.Errorf("store idempotent response: %w", err)
	}
	return nil
}

// Release deletes the key
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
