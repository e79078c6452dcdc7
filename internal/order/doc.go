// Package order contains the order domain model: the aggregate that
// validates line items and computes totals, and the status state machine
// gating edits and deletions.
//
// The guards are evaluated by callers before any store mutation; the store
// itself applies no status checks.
package order
