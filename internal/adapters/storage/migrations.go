package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The schema is applied idempotently on startup; every statement is safe to
// re-run against an already migrated database.
var migrationStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS checkout`,
	`CREATE TABLE IF NOT EXISTS checkout.orders (
		order_id          TEXT PRIMARY KEY,
		status            TEXT NOT NULL,
		subtotal          BIGINT NOT NULL,
		shipping_cost     BIGINT NOT NULL,
		total_price       BIGINT NOT NULL,
		invoice_id        TEXT,
		delivery_city     TEXT NOT NULL,
		delivery_postcode TEXT NOT NULL,
		items             JSONB NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx
		ON checkout.orders (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx
		ON checkout.orders (status)`,
}

// Migrate applies the order store schema
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrationStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
