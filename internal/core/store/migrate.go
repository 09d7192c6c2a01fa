package store

import (
	"context"
	"errors"
	"fmt"
)

// migrations are applied in order and must stay idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		seller_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price INTEGER,
		category TEXT,
		attributes_json TEXT NOT NULL DEFAULT '{}',
		search_index TEXT NOT NULL DEFAULT '',
		is_gold INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_seller ON listings(seller_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_created ON listings(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL DEFAULT '',
		entity_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_events(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_user ON audit_events(user_id)`,
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for i, stmt := range migrations {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
