package storage

import (
	"context"

	"github.com/dkuzmin/fooddesk/internal/order"
	"github.com/dkuzmin/fooddesk/pkg/types"
)

// Storage defines the interface for persisting and querying orders and the
// catalog they reference.
type Storage interface {
	// Order operations
	PlaceOrder(ctx context.Context, draft *order.Draft) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*types.OrderSummary, error)
	UpdateOrder(ctx context.Context, orderID int64, statusID order.StatusID, deliveryAddress string) error
	DeleteOrder(ctx context.Context, orderID int64) error
	QueryOrders(ctx context.Context, clientID int64, query OrderQuery) ([]types.OrderSummary, error)

	// Client operations
	GetClient(ctx context.Context, clientID int64) (*types.Client, error)
	UpdateClientAddress(ctx context.Context, clientID int64, street, building string, apartment *string) error

	// Catalog operations
	GetRestaurants(ctx context.Context) ([]types.Restaurant, error)
	GetDishesByRestaurant(ctx context.Context, restaurantID int64) ([]types.Dish, error)

	// Database operations
	SeedDemo(ctx context.Context) error
	Close() error
}
