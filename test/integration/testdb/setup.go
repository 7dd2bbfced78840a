package testdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/kevin07696/recurring-payment-service/internal/adapters/postgres"
	"github.com/kevin07696/recurring-payment-service/internal/db/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// SetupTestDB connects to DATABASE_URL and applies migrations. It returns
// nil when no database is configured so callers can fall back to fakes.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" || testing.Short() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := runMigrations(pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	CleanDatabase(t, pool)
	t.Cleanup(func() {
		CleanDatabase(t, pool)
		pool.Close()
	})
	return pool
}

// RecurIDBase is the first recurring contribution id reserved for
// integration tests. Rows below it belong to other suites.
const RecurIDBase int64 = 900000

// CleanDatabase removes rows created by integration tests
func CleanDatabase(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), "DELETE FROM customer_codes WHERE recur_id >= $1", RecurIDBase); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
}

func runMigrations(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
