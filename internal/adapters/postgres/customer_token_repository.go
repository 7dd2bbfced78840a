package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

const (
	insertCustomerTokenSQL = `
INSERT INTO customer_codes (customer_code, ip, expiry, cid, email, recur_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`

	selectCustomerTokenSQL = `
SELECT customer_code, ip, expiry, cid, email, recur_id, created_at
FROM customer_codes
WHERE recur_id = $1`
)

// CustomerTokenRepository implements ports.CustomerTokenStore on PostgreSQL
type CustomerTokenRepository struct {
	db           ports.DBPort
	queryTimeout time.Duration
}

var _ ports.CustomerTokenStore = (*CustomerTokenRepository)(nil)

// NewCustomerTokenRepository creates a new customer token repository
func NewCustomerTokenRepository(db ports.DBPort, queryTimeout time.Duration) *CustomerTokenRepository {
	return &CustomerTokenRepository{db: db, queryTimeout: queryTimeout}
}

// Save inserts a token using the pool
func (r *CustomerTokenRepository) Save(ctx context.Context, token *domain.CustomerToken) error {
	return r.SaveTx(ctx, r.db.GetDB(), token)
}

// SaveTx inserts a token through the given executor, so callers can join a transaction
func (r *CustomerTokenRepository) SaveTx(ctx context.Context, q ports.DBTX, token *domain.CustomerToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var createdAt time.Time
	err := q.QueryRow(ctx, insertCustomerTokenSQL,
		token.CustomerCode,
		nullText(token.IPAddress),
		token.Expiry,
		token.ContactID,
		nullText(token.Email),
		token.RecurringContributionID,
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save customer token for recurring %d: %w", token.RecurringContributionID, domain.ErrCustomerTokenExists)
		}
		return fmt.Errorf("save customer token: %w", err)
	}

	token.CreatedAt = createdAt
	return nil
}

// FindByRecurringID returns the token stored for a recurring contribution
func (r *CustomerTokenRepository) FindByRecurringID(ctx context.Context, recurringID int64) (*domain.CustomerToken, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		token     domain.CustomerToken
		ip, email pgtype.Text
	)
	err := r.db.GetDB().QueryRow(ctx, selectCustomerTokenSQL, recurringID).Scan(
		&token.CustomerCode,
		&ip,
		&token.Expiry,
		&token.ContactID,
		&email,
		&token.RecurringContributionID,
		&token.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCustomerTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer token: %w", err)
	}

	token.IPAddress = ip.String
	token.Email = email.String
	return &token, nil
}

func (r *CustomerTokenRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}
