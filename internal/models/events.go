package models

import "time"

// Event types
const (
	EventTypeOrderPlaced  = "ORDER_PLACED"
	EventTypeOrderUpdated = "ORDER_UPDATED"
	EventTypeOrderDeleted = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderLineData represents line data carried in events
type OrderLineData struct {
	ItemID    int64   `json:"item_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderPlacedEvent published after an order is created
type OrderPlacedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	TotalAmount   float64         `json:"total_amount"`
	Lines         []OrderLineData `json:"lines"`
}

// OrderUpdatedEvent published after an order mutation. Lines holds the
// order's lines after the update; ReleasedLines holds lines that were
// replaced (their stock was restored).
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	TotalAmount   float64         `json:"total_amount"`
	Lines         []OrderLineData `json:"lines"`
	ReleasedLines []OrderLineData `json:"released_lines,omitempty"`
}

// OrderDeletedEvent published after an order is deleted and stock restored
type OrderDeletedEvent struct {
	BaseEvent
	OrderID int64           `json:"order_id"`
	Lines   []OrderLineData `json:"lines"`
}
