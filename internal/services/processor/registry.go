package processor

import (
	"sort"
	"strings"
	"sync"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

// Entry is the set of services bound to one configured processor
type Entry struct {
	Processor     domain.Processor
	Payments      ports.PaymentService
	Subscriptions ports.SubscriptionService
}

// Registry holds one Entry per processor key. It is filled at startup and
// only read afterwards; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register binds entry to key, replacing any previous binding
func (r *Registry) Register(key string, entry *Entry) error {
	key = normalizeKey(key)
	if key == "" {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, "processor key is required")
	}
	if entry == nil || entry.Payments == nil || entry.Subscriptions == nil {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, "processor services are required").
			WithDetail("processor", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry
	return nil
}

// Get returns the entry for key
func (r *Registry) Get(key string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[normalizeKey(key)]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrorCodeProcessorNotFound, "processor not found").
			WithDetail("processor", key)
	}
	return entry, nil
}

// Keys returns the registered keys in ascending order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
