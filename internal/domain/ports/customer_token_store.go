package ports

import (
	"context"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// CustomerTokenStore persists customer codes keyed by recurring contribution
type CustomerTokenStore interface {
	// Save inserts the token. A second token for the same recurring
	// contribution fails with domain.ErrCustomerTokenExists.
	Save(ctx context.Context, token *domain.CustomerToken) error

	// FindByRecurringID returns domain.ErrCustomerTokenNotFound when absent
	FindByRecurringID(ctx context.Context, recurringID int64) (*domain.CustomerToken, error)
}
