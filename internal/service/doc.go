// Package service coordinates the order flows on top of the storage layer.
//
// Mutations go through the status state machine exactly once, here: edits
// require the New status, deletions require New or Cancelled, and a guard
// failure surfaces types.ErrStateTransition without touching storage.
package service
