// Package types provides shared type definitions for the fooddesk service.
//
// It defines the catalog and order projections exchanged between the
// storage, service, and console layers (Client, Restaurant, Dish,
// OrderItem, OrderSummary) together with the validation error sentinels.
//
// All monetary values are decimal.Decimal with cent precision. Validation
// errors are sentinels checked with errors.Is:
//
//	if errors.Is(err, types.ErrEmptyOrder) {
//	    // reject before any storage access
//	}
package types
