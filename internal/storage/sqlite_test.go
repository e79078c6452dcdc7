package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkuzmin/fooddesk/internal/order"
	"github.com/dkuzmin/fooddesk/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)

	// Demo dataset doubles as the test fixture: client 1, restaurants
	// 1 (Pizza Corner) and 2 (Sushi Lane), dishes 1-5
	require.NoError(t, storage.SeedDemo(context.Background()))
	return storage
}

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func mustDraft(t *testing.T, clientID, restaurantID int64, address string, items []types.OrderItem) *order.Draft {
	t.Helper()
	draft, err := order.NewDraft(clientID, restaurantID, address, items)
	require.NoError(t, err)
	return draft
}

func placeTestOrder(t *testing.T, s *SQLiteStorage, clientID, restaurantID int64, items ...types.OrderItem) int64 {
	t.Helper()
	draft := mustDraft(t, clientID, restaurantID, "Test St, bld. 1", items)
	orderID, err := s.PlaceOrder(context.Background(), draft)
	require.NoError(t, err)
	return orderID
}

func countRows(t *testing.T, s *SQLiteStorage, table string) int {
	t.Helper()
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestPlaceOrder(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	items := []types.OrderItem{
		{DishID: 1, Quantity: 5, UnitPrice: money(t, "10.00")},
		{DishID: 2, Quantity: 1, UnitPrice: money(t, "20.00")},
	}
	draft := mustDraft(t, 1, 1, "Baker St, bld. 21, apt. 4", items)

	orderID, err := storage.PlaceOrder(ctx, draft)
	require.NoError(t, err)
	assert.Greater(t, orderID, int64(0))

	summary, err := storage.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ClientID)
	assert.Equal(t, int64(order.StatusNew), summary.StatusID)
	assert.Equal(t, "New", summary.StatusName)
	assert.Equal(t, "Pizza Corner", summary.RestaurantName)
	assert.Equal(t, "Baker St, bld. 21, apt. 4", summary.DeliveryAddress)
	assert.Equal(t, "70.00", summary.TotalAmount.StringFixed(2))
	assert.False(t, summary.CreatedAt.IsZero())

	assert.Equal(t, 2, countRows(t, storage, "order_items"))
}

func TestPlaceOrder_EmptyDraft(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	// The aggregate refuses to build an empty draft; the store re-checks
	// a hand-built one and never touches the database
	_, err := storage.PlaceOrder(context.Background(), &order.Draft{ClientID: 1, RestaurantID: 1})
	assert.ErrorIs(t, err, types.ErrEmptyOrder)
	assert.Equal(t, 0, countRows(t, storage, "orders"))
}

func TestPlaceOrder_AtomicRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	// Second item references a missing dish; the FK violation must roll
	// back the already-written header
	items := []types.OrderItem{
		{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")},
		{DishID: 9999, Quantity: 1, UnitPrice: money(t, "5.00")},
	}
	draft := mustDraft(t, 1, 1, "Test St, bld. 1", items)

	_, err := storage.PlaceOrder(ctx, draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)

	// Store state equals the pre-call state: no header, no items
	assert.Equal(t, 0, countRows(t, storage, "orders"))
	assert.Equal(t, 0, countRows(t, storage, "order_items"))
}

func TestGetOrder_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrder(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	orderID := placeTestOrder(t, storage, 1, 1,
		types.OrderItem{DishID: 1, Quantity: 2, UnitPrice: money(t, "10.00")})

	err := storage.UpdateOrder(ctx, orderID, 2, "Oak Ave, bld. 12")
	require.NoError(t, err)

	summary, err := storage.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.StatusID)
	assert.Equal(t, "Accepted", summary.StatusName)
	assert.Equal(t, "Oak Ave, bld. 12", summary.DeliveryAddress)
	// The total is a creation-time snapshot; updates never recompute it
	assert.Equal(t, "20.00", summary.TotalAmount.StringFixed(2))
}

func TestUpdateOrder_MissingIsNoOp(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	// Zero rows affected is not an error
	err := storage.UpdateOrder(context.Background(), 999, 2, "nowhere")
	assert.NoError(t, err)
}

func TestDeleteOrder_CascadesItems(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	orderID := placeTestOrder(t, storage, 1, 1,
		types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")},
		types.OrderItem{DishID: 2, Quantity: 3, UnitPrice: money(t, "20.00")})
	require.Equal(t, 2, countRows(t, storage, "order_items"))

	err := storage.DeleteOrder(ctx, orderID)
	require.NoError(t, err)

	_, err = storage.GetOrder(ctx, orderID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, countRows(t, storage, "order_items"))

	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestQueryOrders_OwnedOnly(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	_, err := storage.db.Exec(`
		INSERT INTO clients (id, nickname, email, street, building) VALUES
			(2, 'other', 'other@example.com', 'Elm St', '3')
	`)
	require.NoError(t, err)

	placeTestOrder(t, storage, 1, 1, types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})
	placeTestOrder(t, storage, 1, 2, types.OrderItem{DishID: 4, Quantity: 1, UnitPrice: money(t, "12.75")})
	placeTestOrder(t, storage, 2, 1, types.OrderItem{DishID: 1, Quantity: 2, UnitPrice: money(t, "10.00")})

	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, int64(1), o.ClientID)
	}
}

func TestQueryOrders_NumericTermIsAlwaysAnIDLookup(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	// A restaurant literally named "42" must not hijack numeric searches
	_, err := storage.db.Exec(`
		INSERT INTO restaurants (id, name, street, building) VALUES (42, '42', 'Pine St', '9');
		INSERT INTO dishes (id, name, price_cents, restaurant_id) VALUES (100, 'Answer Burger', 4200, 42);
	`)
	require.NoError(t, err)

	firstID := placeTestOrder(t, storage, 1, 1,
		types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})
	placeTestOrder(t, storage, 1, 42,
		types.OrderItem{DishID: 100, Quantity: 1, UnitPrice: money(t, "42.00")})

	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{SearchTerm: fmt.Sprint(firstID)})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, firstID, orders[0].OrderID)
	assert.Equal(t, "Pizza Corner", orders[0].RestaurantName)
}

func TestQueryOrders_SubstringMatchesRestaurantOrStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	pizzaID := placeTestOrder(t, storage, 1, 1,
		types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})
	sushiID := placeTestOrder(t, storage, 1, 2,
		types.OrderItem{DishID: 4, Quantity: 1, UnitPrice: money(t, "12.75")})

	// Restaurant name substring, case-insensitive
	for _, term := range []string{"piz", "PIZ", "Pizza"} {
		orders, err := storage.QueryOrders(ctx, 1, OrderQuery{SearchTerm: term})
		require.NoError(t, err)
		require.Len(t, orders, 1, "term %q", term)
		assert.Equal(t, pizzaID, orders[0].OrderID, "term %q", term)
	}

	// Status name substring matches both New orders
	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{SearchTerm: "new"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	// Move one order out of New; the status filter narrows accordingly
	require.NoError(t, storage.UpdateOrder(ctx, sushiID, 4, "Test St, bld. 1"))
	orders, err = storage.QueryOrders(ctx, 1, OrderQuery{SearchTerm: "deliver"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sushiID, orders[0].OrderID)

	// No match is an empty result, not an error
	orders, err = storage.QueryOrders(ctx, 1, OrderQuery{SearchTerm: "nosuchplace"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestQueryOrders_SortByTotal(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	placeTestOrder(t, storage, 1, 1, types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})
	placeTestOrder(t, storage, 1, 1, types.OrderItem{DishID: 2, Quantity: 3, UnitPrice: money(t, "20.00")})
	placeTestOrder(t, storage, 1, 1, types.OrderItem{DishID: 3, Quantity: 2, UnitPrice: money(t, "15.50")})

	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{Sort: SortByTotal, Ascending: false})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 0; i < len(orders)-1; i++ {
		assert.True(t, orders[i].TotalAmount.GreaterThanOrEqual(orders[i+1].TotalAmount),
			"orders[%d]=%s < orders[%d]=%s", i, orders[i].TotalAmount, i+1, orders[i+1].TotalAmount)
	}

	orders, err = storage.QueryOrders(ctx, 1, OrderQuery{Sort: SortByTotal, Ascending: true})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 0; i < len(orders)-1; i++ {
		assert.True(t, orders[i].TotalAmount.LessThanOrEqual(orders[i+1].TotalAmount))
	}
}

func TestQueryOrders_SortByOrderID(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		placeTestOrder(t, storage, 1, 1,
			types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})
	}

	orders, err := storage.QueryOrders(ctx, 1, OrderQuery{Sort: SortByOrderID, Ascending: true})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 0; i < len(orders)-1; i++ {
		assert.Less(t, orders[i].OrderID, orders[i+1].OrderID)
	}
}

func TestGetClient(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	client, err := storage.GetClient(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "demo", client.Nickname)
	assert.Equal(t, "demo@example.com", client.Email)
	require.NotNil(t, client.Apartment)
	assert.Equal(t, "Baker St, bld. 21, apt. 4", client.FullAddress())
}

func TestGetClient_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetClient(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateClientAddress(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	err := storage.UpdateClientAddress(ctx, 1, "Elm St", "7", nil)
	require.NoError(t, err)

	client, err := storage.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Elm St", client.Street)
	assert.Equal(t, "7", client.Building)
	assert.Nil(t, client.Apartment)
}

func TestUpdateClientAddress_DoesNotTouchOrderSnapshots(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	orderID := placeTestOrder(t, storage, 1, 1,
		types.OrderItem{DishID: 1, Quantity: 1, UnitPrice: money(t, "10.00")})

	require.NoError(t, storage.UpdateClientAddress(ctx, 1, "New St", "99", nil))

	summary, err := storage.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "Test St, bld. 1", summary.DeliveryAddress)
}

func TestGetRestaurants(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	restaurants, err := storage.GetRestaurants(context.Background())
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	assert.Equal(t, "Pizza Corner", restaurants[0].Name)
	assert.Equal(t, "Sushi Lane", restaurants[1].Name)
}

func TestGetDishesByRestaurant(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	dishes, err := storage.GetDishesByRestaurant(ctx, 1)
	require.NoError(t, err)
	require.Len(t, dishes, 3)
	assert.Equal(t, "Margherita", dishes[0].Name)
	assert.Equal(t, "10.00", dishes[0].Price.StringFixed(2))

	// Unknown restaurant yields an empty menu, not an error
	dishes, err = storage.GetDishesByRestaurant(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, dishes)
}

func TestSeedDemo_Idempotent(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	require.NoError(t, storage.SeedDemo(context.Background()))
	assert.Equal(t, 1, countRows(t, storage, "clients"))
	assert.Equal(t, 2, countRows(t, storage, "restaurants"))
	assert.Equal(t, 5, countRows(t, storage, "dishes"))
}
