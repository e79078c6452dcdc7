package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dkuzmin/fooddesk/pkg/types"
)

// Draft is an order aggregate ready for persistence: the header fields plus
// the line items, with the total computed once at construction. It is a pure
// value object and never touches storage.
type Draft struct {
	ClientID        int64
	RestaurantID    int64
	DeliveryAddress string
	Items           []types.OrderItem

	total decimal.Decimal
}

// NewDraft validates the line items and computes the order total as the sum
// of quantity times unit price per line, using decimal arithmetic.
//
// An empty item list fails with types.ErrEmptyOrder and a non-positive
// quantity with types.ErrInvalidQuantity, both before any side effects.
func NewDraft(clientID, restaurantID int64, deliveryAddress string, items []types.OrderItem) (*Draft, error) {
	if len(items) == 0 {
		return nil, types.ErrEmptyOrder
	}

	total := decimal.Zero
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: %w (got %d)", i, types.ErrInvalidQuantity, item.Quantity)
		}
		total = total.Add(item.LineTotal())
	}

	return &Draft{
		ClientID:        clientID,
		RestaurantID:    restaurantID,
		DeliveryAddress: deliveryAddress,
		Items:           items,
		total:           total,
	}, nil
}

// Total returns the order total computed at construction time.
func (d *Draft) Total() decimal.Decimal {
	return d.total
}
