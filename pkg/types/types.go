package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Client is a registered customer profile. The address fields are the
// profile's default delivery address; placed orders keep their own snapshot.
type Client struct {
	ID        int64
	Nickname  string
	Email     string
	Street    string
	Building  string
	Apartment *string // Nullable
}

// FullAddress renders the profile address as a single delivery line.
func (c *Client) FullAddress() string {
	addr := fmt.Sprintf("%s, bld. %s", c.Street, c.Building)
	if c.Apartment != nil && *c.Apartment != "" {
		addr += fmt.Sprintf(", apt. %s", *c.Apartment)
	}
	return addr
}

// Restaurant is a read-only catalog entry.
type Restaurant struct {
	ID        int64
	Name      string
	Street    string
	Building  string
	Apartment *string // Nullable
}

// Dish is a read-only menu entry. Price is copied into an order line at
// order time; later price changes never alter past orders.
type Dish struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	RestaurantID int64
}

func (d Dish) String() string {
	return fmt.Sprintf("%d. %s (%s)", d.ID, d.Name, d.Price.StringFixed(2))
}

// OrderItem is one line of an order: a dish, how many, and the unit price
// snapshot taken when the order was placed. Items have no identity outside
// their order.
type OrderItem struct {
	DishID    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderSummary is the order-list projection: the order header joined with
// its status name and restaurant name.
type OrderSummary struct {
	OrderID         int64
	ClientID        int64
	StatusID        int64
	StatusName      string
	RestaurantName  string
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	CreatedAt       time.Time
}

func (o OrderSummary) String() string {
	return fmt.Sprintf("Order #%d from %s | Restaurant: %s | Total: %s | Status: %s",
		o.OrderID, o.CreatedAt.Format("02.01.2006 15:04"),
		o.RestaurantName, o.TotalAmount.StringFixed(2), o.StatusName)
}
