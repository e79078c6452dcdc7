package order

import (
	"fmt"

	"github.com/dkuzmin/fooddesk/pkg/types"
)

// StatusID identifies a row of the order_statuses lookup table. The status
// catalog is deployment data; the core only knows the two ids its guards
// depend on.
type StatusID int64

const (
	// StatusNew is the initial status of every created order and the only
	// status that permits editing.
	StatusNew StatusID = 1
	// StatusCancelled is the terminal status that still permits deletion.
	StatusCancelled StatusID = 5
)

// CanEdit reports whether an order in the given status may be edited.
func CanEdit(status StatusID) bool {
	return status == StatusNew
}

// CanDelete reports whether an order in the given status may be deleted.
func CanDelete(status StatusID) bool {
	return status == StatusNew || status == StatusCancelled
}

// EnsureEditable returns types.ErrStateTransition unless the status permits
// editing. statusName is used for the error message only.
func EnsureEditable(status StatusID, statusName string) error {
	if !CanEdit(status) {
		return fmt.Errorf("edit order in status %q: %w", statusName, types.ErrStateTransition)
	}
	return nil
}

// EnsureDeletable returns types.ErrStateTransition unless the status permits
// deletion. statusName is used for the error message only.
func EnsureDeletable(status StatusID, statusName string) error {
	if !CanDelete(status) {
		return fmt.Errorf("delete order in status %q: %w", statusName, types.ErrStateTransition)
	}
	return nil
}
