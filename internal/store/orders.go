package store

import (
	"context"
	"database/sql"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder inserts a new order row
func (q *Queries) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_name, customer_email, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return sqlx.GetContext(ctx, q.ext, order, query,
		order.CustomerName, order.CustomerEmail, order.Status, order.TotalAmount)
}

// GetOrder retrieves an order by ID, without its lines
func (q *Queries) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := sqlx.GetContext(ctx, q.ext, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves orders with offset/limit pagination
func (q *Queries) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	err := sqlx.SelectContext(ctx, q.ext, &orders,
		"SELECT * FROM orders ORDER BY id OFFSET $1 LIMIT $2", offset, limit)
	return orders, err
}

// SaveOrder persists the order's scalar fields and bumps updated_at
func (q *Queries) SaveOrder(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $1, customer_email = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := sqlx.GetContext(ctx, q.ext, &order.UpdatedAt, query,
		order.CustomerName, order.CustomerEmail, order.Status, order.ID)
	if err == sql.ErrNoRows {
		return models.ErrOrderNotFound
	}
	return err
}

// DeleteOrder deletes an order; its lines cascade
func (q *Queries) DeleteOrder(ctx context.Context, id int64) error {
	res, err := q.ext.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// CreateOrderLine inserts a new order line
func (q *Queries) CreateOrderLine(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return sqlx.GetContext(ctx, q.ext, &line.ID, query,
		line.OrderID, line.ItemID, line.Quantity, line.UnitPrice)
}

// GetOrderLines retrieves all lines for an order
func (q *Queries) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	err := sqlx.SelectContext(ctx, q.ext, &lines,
		"SELECT * FROM order_lines WHERE order_id = $1 ORDER BY id", orderID)
	return lines, err
}

// DeleteOrderLines deletes all lines for an order
func (q *Queries) DeleteOrderLines(ctx context.Context, orderID int64) error {
	_, err := q.ext.ExecContext(ctx, "DELETE FROM order_lines WHERE order_id = $1", orderID)
	return err
}

// UpdateOrderTotal recomputes total_amount from the order's current lines,
// persists it, bumps updated_at, and returns the new total
func (q *Queries) UpdateOrderTotal(ctx context.Context, orderID int64) (float64, error) {
	query := `
		UPDATE orders
		SET total_amount = COALESCE(
			(SELECT SUM(quantity * unit_price) FROM order_lines WHERE order_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_amount`

	var total float64
	err := sqlx.GetContext(ctx, q.ext, &total, query, orderID)
	if err == sql.ErrNoRows {
		return 0, models.ErrOrderNotFound
	}
	return total, err
}
