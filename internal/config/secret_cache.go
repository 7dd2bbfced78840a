package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	secretCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secret_cache_hits_total",
		Help: "Total number of processor secret cache hits",
	})

	secretCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secret_cache_misses_total",
		Help: "Total number of processor secret cache misses",
	}, []string{"reason"}) // expired, not_found, error
)

// secretFetchTimeout bounds a shared backend fetch, which outlives the
// request that started it
const secretFetchTimeout = 10 * time.Second

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// SecretCache caches secret values by path for a fixed TTL. Concurrent misses
// for the same path share one backend call.
type SecretCache struct {
	secretMgr ports.SecretManager
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedSecret
	group   singleflight.Group
}

// NewSecretCache creates a secret cache
func NewSecretCache(secretMgr ports.SecretManager, logger *zap.Logger, ttl time.Duration) *SecretCache {
	return &SecretCache{
		secretMgr: secretMgr,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]cachedSecret),
	}
}

// Get returns the secret value at path
func (c *SecretCache) Get(ctx context.Context, path string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt) {
		secretCacheHits.Inc()
		return entry.value, nil
	}
	if ok {
		secretCacheMisses.WithLabelValues("expired").Inc()
	} else {
		secretCacheMisses.WithLabelValues("not_found").Inc()
	}

	ch := c.group.DoChan(path, func() (interface{}, error) {
		// waiters must not fail because the first caller went away
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), secretFetchTimeout)
		defer cancel()

		secret, err := c.secretMgr.GetSecret(fetchCtx, path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[path] = cachedSecret{value: secret.Value, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()

		c.logger.Info("Cached processor secret", zap.String("path", path), zap.Duration("ttl", c.ttl))
		return secret.Value, nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetch secret %s: %w", path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			secretCacheMisses.WithLabelValues("error").Inc()
			return "", fmt.Errorf("fetch secret %s: %w", path, res.Err)
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops a cached path, e.g. after a password rotation
func (c *SecretCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
