package storage

import (
	"context"
	"fmt"
)

// SeedDemo loads a small demo dataset (one client, two restaurants with
// menus) so a fresh database is usable from the console. Idempotent: fixed
// ids with INSERT OR IGNORE.
func (s *SQLiteStorage) SeedDemo(ctx context.Context) error {
	const seed = `
		INSERT OR IGNORE INTO clients (id, nickname, email, street, building, apartment) VALUES
			(1, 'demo', 'demo@example.com', 'Baker St', '21', '4');

		INSERT OR IGNORE INTO restaurants (id, name, street, building, apartment) VALUES
			(1, 'Pizza Corner', 'Main St', '5', NULL),
			(2, 'Sushi Lane', 'Oak Ave', '12', '2');

		INSERT OR IGNORE INTO dishes (id, name, price_cents, restaurant_id) VALUES
			(1, 'Margherita', 1000, 1),
			(2, 'Pepperoni', 2000, 1),
			(3, 'Four Cheese', 1550, 1),
			(4, 'Salmon Roll', 1275, 2),
			(5, 'Tuna Nigiri', 950, 2);
	`
	if _, err := s.db.ExecContext(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	return nil
}
