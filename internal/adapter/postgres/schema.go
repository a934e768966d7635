package postgres

import (
	"context"
	"fmt"
)

// schema creates the order journal tables. Order numbers are short display
// numbers and may repeat, so rows are keyed by a generated uuid.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id            UUID PRIMARY KEY,
	number        TEXT        NOT NULL,
	mode          TEXT        NOT NULL,
	details       TEXT        NOT NULL DEFAULT '',
	total_amount  INTEGER     NOT NULL,
	status        TEXT        NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_number ON orders (number, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
	id        SERIAL PRIMARY KEY,
	order_id  UUID    NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	dish_id   TEXT    NOT NULL,
	name      TEXT    NOT NULL,
	quantity  INTEGER NOT NULL CHECK (quantity > 0),
	price     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS order_status_log (
	id          SERIAL PRIMARY KEY,
	order_id    UUID        NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	status      TEXT        NOT NULL,
	changed_by  TEXT        NOT NULL,
	changed_at  TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the journal tables when they do not exist.
func Migrate(ctx context.Context, db DB) error {
	if err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
