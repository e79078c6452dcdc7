// Package storage provides SQLite-based persistence for orders and the
// catalog they reference.
//
// The storage layer manages:
//   - Client profiles and restaurant/dish catalog rows
//   - The order_statuses lookup (seeded by migration)
//   - Atomic order creation (header plus every line item in one transaction)
//   - Filtered, sorted order listings with parameterized dynamic queries
//
// # Database Schema
//
// Tables:
//   - clients: customer profiles with a default delivery address
//   - restaurants, dishes: read-only catalog (prices in integer cents)
//   - order_statuses: fixed status lookup (1=New ... 5=Cancelled)
//   - orders: order headers with a total snapshot and address snapshot
//   - order_items: line items, cascade-deleted with their order
//
// # Atomic Creation
//
// PlaceOrder is the only multi-statement write. It opens a transaction,
// inserts the header and every item, and commits only when all succeed; any
// failure rolls the whole unit back and surfaces ErrPersistence:
//
//	id, err := store.PlaceOrder(ctx, draft)
//	if errors.Is(err, storage.ErrPersistence) {
//	    // nothing was written
//	}
//
// # Query Construction
//
// QueryOrders builds its WHERE/ORDER BY clause from an OrderQuery. A
// numeric search term is an exact id lookup; anything else is a
// case-insensitive substring match against status or restaurant name. The
// sort column comes from a compile-time whitelist and every user value is a
// bound parameter.
//
// # Build Tags
//
// Two driver configurations are supported:
//
//   - default: modernc.org/sqlite, pure Go, CGO_ENABLED=0
//   - sqlite_cgo: github.com/mattn/go-sqlite3, requires a C compiler
package storage
