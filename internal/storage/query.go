package storage

import (
	"strconv"
	"strings"
)

// SortField selects the column an order query is sorted by.
type SortField string

const (
	// SortByDate sorts by creation timestamp (the default)
	SortByDate SortField = "date"
	// SortByOrderID sorts by order id
	SortByOrderID SortField = "id"
	// SortByTotal sorts by order total
	SortByTotal SortField = "total"
)

// sortColumns whitelists the ORDER BY column per sort field. Sorting never
// interpolates caller input into SQL.
var sortColumns = map[SortField]string{
	SortByDate:    "o.created_at",
	SortByOrderID: "o.id",
	SortByTotal:   "o.total_amount_cents",
}

// OrderQuery describes the filter and sort applied to a client's order list.
//
// A blank SearchTerm matches every order. A term that parses fully as an
// integer is always an exact order-id lookup, even when a status or
// restaurant name happens to be numeric. Any other term is a
// case-insensitive substring match against the status name or the
// restaurant name.
type OrderQuery struct {
	SearchTerm string
	Sort       SortField
	Ascending  bool
}

// selectOrderSummary is the shared projection for order listings: the order
// header joined with its status name and restaurant name.
const selectOrderSummary = `
	SELECT o.id, o.client_id, o.status_id, os.name, r.name,
	       o.total_amount_cents, o.delivery_address, o.created_at
	FROM orders o
	JOIN order_statuses os ON o.status_id = os.id
	JOIN restaurants r ON o.restaurant_id = r.id`

// buildOrderQuery constructs the parameterized SQL for QueryOrders. All
// caller-supplied values are bound arguments.
func buildOrderQuery(clientID int64, query OrderQuery) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(selectOrderSummary)
	sb.WriteString(" WHERE o.client_id = ?")
	args := []interface{}{clientID}

	term := strings.TrimSpace(query.SearchTerm)
	if term != "" {
		if orderID, err := strconv.ParseInt(term, 10, 64); err == nil {
			sb.WriteString(" AND o.id = ?")
			args = append(args, orderID)
		} else {
			pattern := "%" + strings.ToLower(term) + "%"
			sb.WriteString(" AND (LOWER(os.name) LIKE ? OR LOWER(r.name) LIKE ?)")
			args = append(args, pattern, pattern)
		}
	}

	column, ok := sortColumns[query.Sort]
	if !ok {
		column = sortColumns[SortByDate]
	}
	direction := " DESC"
	if query.Ascending {
		direction = " ASC"
	}
	sb.WriteString(" ORDER BY " + column + direction)

	return sb.String(), args
}
