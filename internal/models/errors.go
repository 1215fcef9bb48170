package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for missing resources. These are validation failures, not
// infrastructure faults, and are matched with errors.Is at the API boundary.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("item not found")
)

// ErrInvalidStatus is returned when an order status patch is outside the enum
var ErrInvalidStatus = errors.New("invalid order status")

// ItemNotFoundError reports an order line referencing a nonexistent item
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item with id %d not found", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error {
	return ErrItemNotFound
}

// InsufficientStockError reports a requested quantity exceeding available stock
type InsufficientStockError struct {
	ItemID    int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: available=%d, requested=%d",
		e.ItemID, e.Available, e.Requested)
}
