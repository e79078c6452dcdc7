package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkuzmin/fooddesk/internal/order"
	"github.com/dkuzmin/fooddesk/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrPersistence is returned when the storage layer itself fails
	// (connectivity, constraint violation, disk). The underlying driver
	// error stays in the chain for errors.Is/As.
	ErrPersistence = errors.New("persistence failure")
)

// persistErr wraps a driver error so callers can branch on ErrPersistence
// while keeping the original error in the chain.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys; delete cascade and the item->order ownership
	// depend on it
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Money values are stored as integer cents so SQL ordering and equality on
// amounts are exact.

func centsFromDecimal(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func decimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Order operations

// PlaceOrder persists the order header and every line item as one atomic
// unit. The status is forced to New and created_at is assigned here. On any
// failure the transaction is rolled back and ErrPersistence is returned; no
// partial order ever becomes visible.
func (s *SQLiteStorage) PlaceOrder(ctx context.Context, draft *order.Draft) (int64, error) {
	if draft == nil || len(draft.Items) == 0 {
		return 0, types.ErrEmptyOrder
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistErr("failed to begin order transaction", err)
	}
	// Rollback is a no-op after a successful commit
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (client_id, restaurant_id, status_id, total_amount_cents, delivery_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, draft.ClientID, draft.RestaurantID, int64(order.StatusNew),
		centsFromDecimal(draft.Total()), draft.DeliveryAddress, now)
	if err != nil {
		return 0, persistErr("failed to insert order header", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, persistErr("failed to read order id", err)
	}

	for i, item := range draft.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, dish_id, quantity, unit_price_cents)
			VALUES (?, ?, ?, ?)
		`, orderID, item.DishID, item.Quantity, centsFromDecimal(item.UnitPrice))
		if err != nil {
			return 0, persistErr(fmt.Sprintf("failed to insert order item %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, persistErr("failed to commit order", err)
	}
	return orderID, nil
}

// GetOrder returns the summary of a single order, or ErrNotFound.
func (s *SQLiteStorage) GetOrder(ctx context.Context, orderID int64) (*types.OrderSummary, error) {
	query := selectOrderSummary + " WHERE o.id = ?"

	var summary types.OrderSummary
	var totalCents int64
	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&summary.OrderID, &summary.ClientID, &summary.StatusID,
		&summary.StatusName, &summary.RestaurantName,
		&totalCents, &summary.DeliveryAddress, &summary.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	summary.TotalAmount = decimalFromCents(totalCents)
	return &summary, nil
}

// UpdateOrder overwrites the status and delivery address of an order. The
// total is never recomputed and no status guard is applied here; callers
// evaluate the state machine beforehand. A missing order id affects zero
// rows and is not an error.
func (s *SQLiteStorage) UpdateOrder(ctx context.Context, orderID int64, statusID order.StatusID, deliveryAddress string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status_id = ?, delivery_address = ? WHERE id = ?
	`, int64(statusID), deliveryAddress, orderID)
	if err != nil {
		return persistErr("failed to update order", err)
	}
	return nil
}

// DeleteOrder removes the order header; the line items go with it via the
// foreign-key cascade. Unconditional once invoked.
func (s *SQLiteStorage) DeleteOrder(ctx context.Context, orderID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return persistErr("failed to delete order", err)
	}
	return nil
}

// QueryOrders returns the client's orders joined with status and restaurant
// names, filtered and sorted per the query. An empty result is not an error.
func (s *SQLiteStorage) QueryOrders(ctx context.Context, clientID int64, query OrderQuery) ([]types.OrderSummary, error) {
	sqlQuery, args := buildOrderQuery(clientID, query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]types.OrderSummary, 0)
	for rows.Next() {
		var summary types.OrderSummary
		var totalCents int64
		err := rows.Scan(
			&summary.OrderID, &summary.ClientID, &summary.StatusID,
			&summary.StatusName, &summary.RestaurantName,
			&totalCents, &summary.DeliveryAddress, &summary.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		summary.TotalAmount = decimalFromCents(totalCents)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Client operations

// GetClient returns a client profile, or ErrNotFound.
func (s *SQLiteStorage) GetClient(ctx context.Context, clientID int64) (*types.Client, error) {
	query := `
		SELECT id, nickname, email, street, building, apartment
		FROM clients
		WHERE id = ?
	`
	var client types.Client
	var apartment sql.NullString
	err := s.db.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID, &client.Nickname, &client.Email,
		&client.Street, &client.Building, &apartment,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if apartment.Valid {
		client.Apartment = &apartment.String
	}
	return &client, nil
}

// UpdateClientAddress overwrites the profile address fields. Orders placed
// earlier keep their delivery-address snapshot.
func (s *SQLiteStorage) UpdateClientAddress(ctx context.Context, clientID int64, street, building string, apartment *string) error {
	var apt interface{}
	if apartment != nil {
		apt = *apartment
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE clients SET street = ?, building = ?, apartment = ? WHERE id = ?
	`, street, building, apt, clientID)
	if err != nil {
		return persistErr("failed to update client address", err)
	}
	return nil
}

// Catalog operations

// GetRestaurants lists the restaurant catalog.
func (s *SQLiteStorage) GetRestaurants(ctx context.Context) ([]types.Restaurant, error) {
	query := `
		SELECT id, name, street, building, apartment
		FROM restaurants
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	restaurants := make([]types.Restaurant, 0)
	for rows.Next() {
		var restaurant types.Restaurant
		var apartment sql.NullString
		err := rows.Scan(&restaurant.ID, &restaurant.Name,
			&restaurant.Street, &restaurant.Building, &apartment)
		if err != nil {
			return nil, err
		}
		if apartment.Valid {
			restaurant.Apartment = &apartment.String
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

// GetDishesByRestaurant lists a restaurant's menu. An unknown restaurant id
// yields an empty menu, not an error.
func (s *SQLiteStorage) GetDishesByRestaurant(ctx context.Context, restaurantID int64) ([]types.Dish, error) {
	query := `
		SELECT id, name, price_cents, restaurant_id
		FROM dishes
		WHERE restaurant_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	dishes := make([]types.Dish, 0)
	for rows.Next() {
		var dish types.Dish
		var priceCents int64
		err := rows.Scan(&dish.ID, &dish.Name, &priceCents, &dish.RestaurantID)
		if err != nil {
			return nil, err
		}
		dish.Price = decimalFromCents(priceCents)
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}
