package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dkuzmin/fooddesk/internal/order"
	"github.com/dkuzmin/fooddesk/internal/storage"
	"github.com/dkuzmin/fooddesk/pkg/types"
)

const (
	// menuCacheSize bounds the number of cached restaurant menus
	menuCacheSize = 128
	// menuCacheTTL is how long a cached menu stays fresh
	menuCacheTTL = 5 * time.Minute
)

// menuEntry is a cached restaurant menu with its expiration time
type menuEntry struct {
	dishes    []types.Dish
	expiresAt time.Time
}

// Service orchestrates order operations: it builds the order aggregate,
// evaluates the status guards before every mutation, and caches the
// read-only menu catalog.
//
// There is no concurrency control for two callers editing the same order;
// last writer wins. Known limitation, kept deliberately.
type Service struct {
	store storage.Storage
	log   *slog.Logger
	menus *lru.Cache[int64, menuEntry]
}

// New creates a Service backed by the given store.
func New(store storage.Storage, log *slog.Logger) *Service {
	cache, err := lru.New[int64, menuEntry](menuCacheSize)
	if err != nil {
		// Only reachable with an invalid size constant
		panic(fmt.Sprintf("failed to create menu cache: %v", err))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		log:   log,
		menus: cache,
	}
}

// PlaceOrder validates the items, computes the total, and persists the
// order atomically. Validation failures (empty order, bad quantity) are
// returned before any storage access.
func (s *Service) PlaceOrder(ctx context.Context, clientID, restaurantID int64, deliveryAddress string, items []types.OrderItem) (int64, error) {
	draft, err := order.NewDraft(clientID, restaurantID, deliveryAddress, items)
	if err != nil {
		return 0, err
	}

	orderID, err := s.store.PlaceOrder(ctx, draft)
	if err != nil {
		return 0, err
	}

	s.log.Info("order placed",
		"order_id", orderID,
		"client_id", clientID,
		"restaurant_id", restaurantID,
		"total", draft.Total().StringFixed(2),
		"items", len(items))
	return orderID, nil
}

// TrackOrders lists the client's orders for the given filter and sort. Sort
// state is passed in explicitly on every call.
func (s *Service) TrackOrders(ctx context.Context, clientID int64, query storage.OrderQuery) ([]types.OrderSummary, error) {
	return s.store.QueryOrders(ctx, clientID, query)
}

// EditOrder overwrites the status and delivery address of one of the
// client's orders. The edit guard is evaluated here, against the order's
// current status, before the store is touched.
func (s *Service) EditOrder(ctx context.Context, clientID, orderID int64, statusID order.StatusID, deliveryAddress string) error {
	summary, err := s.ownedOrder(ctx, clientID, orderID)
	if err != nil {
		return err
	}
	if err := order.EnsureEditable(order.StatusID(summary.StatusID), summary.StatusName); err != nil {
		return err
	}

	if err := s.store.UpdateOrder(ctx, orderID, statusID, deliveryAddress); err != nil {
		return err
	}
	s.log.Info("order updated", "order_id", orderID, "status_id", int64(statusID))
	return nil
}

// RemoveOrder deletes one of the client's orders together with its line
// items. The delete guard is evaluated here before the store is touched.
func (s *Service) RemoveOrder(ctx context.Context, clientID, orderID int64) error {
	summary, err := s.ownedOrder(ctx, clientID, orderID)
	if err != nil {
		return err
	}
	if err := order.EnsureDeletable(order.StatusID(summary.StatusID), summary.StatusName); err != nil {
		return err
	}

	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", orderID)
	return nil
}

// ownedOrder fetches an order and hides orders of other clients behind
// ErrNotFound.
func (s *Service) ownedOrder(ctx context.Context, clientID, orderID int64) (*types.OrderSummary, error) {
	summary, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if summary.ClientID != clientID {
		return nil, storage.ErrNotFound
	}
	return summary, nil
}

// Profile returns the client's profile.
func (s *Service) Profile(ctx context.Context, clientID int64) (*types.Client, error) {
	return s.store.GetClient(ctx, clientID)
}

// UpdateAddress overwrites the profile's default delivery address.
func (s *Service) UpdateAddress(ctx context.Context, clientID int64, street, building string, apartment *string) error {
	return s.store.UpdateClientAddress(ctx, clientID, street, building, apartment)
}

// Restaurants lists the restaurant catalog.
func (s *Service) Restaurants(ctx context.Context) ([]types.Restaurant, error) {
	return s.store.GetRestaurants(ctx)
}

// Menu returns a restaurant's dishes. The catalog is read-only from this
// side, so results are served from a TTL'd LRU cache.
func (s *Service) Menu(ctx context.Context, restaurantID int64) ([]types.Dish, error) {
	if entry, ok := s.menus.Get(restaurantID); ok {
		if time.Now().Before(entry.expiresAt) {
			return entry.dishes, nil
		}
		s.menus.Remove(restaurantID)
	}

	dishes, err := s.store.GetDishesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	s.menus.Add(restaurantID, menuEntry{
		dishes:    dishes,
		expiresAt: time.Now().Add(menuCacheTTL),
	})
	return dishes, nil
}
