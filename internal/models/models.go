package models

import "time"

// Item represents a catalog product with price and available stock
type Item struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Order represents a customer purchase aggregate
type Order struct {
	ID            int64     `db:"id" json:"id"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	Status        string    `db:"status" json:"status"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Lines []OrderLine `db:"-" json:"lines"`
}

// OrderLine represents one item-quantity-price entry within an order.
// UnitPrice is a snapshot of the item price at line creation and is never
// re-derived from the item's current price.
type OrderLine struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ItemID    int64   `db:"item_id" json:"item_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:   {},
	OrderStatusConfirmed: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

// ItemSales aggregates sold quantity per item
type ItemSales struct {
	ItemID    int64  `db:"item_id" json:"item_id"`
	Name      string `db:"name" json:"name"`
	TotalSold int    `db:"total_sold" json:"total_sold"`
}

// ItemRevenue aggregates revenue per item
type ItemRevenue struct {
	ItemID  int64   `db:"item_id" json:"item_id"`
	Name    string  `db:"name" json:"name"`
	Revenue float64 `db:"revenue" json:"revenue"`
}
