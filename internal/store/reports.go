package store

import (
	"context"
	"database/sql"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// TopSellingItem returns the item with the highest total quantity sold
func (q *Queries) TopSellingItem(ctx context.Context) (*models.ItemSales, error) {
	return q.itemSales(ctx, "DESC")
}

// LeastSellingItem returns the item with the lowest total quantity sold
func (q *Queries) LeastSellingItem(ctx context.Context) (*models.ItemSales, error) {
	return q.itemSales(ctx, "ASC")
}

func (q *Queries) itemSales(ctx context.Context, direction string) (*models.ItemSales, error) {
	query := `
		SELECT i.id AS item_id, i.name, COALESCE(SUM(ol.quantity), 0) AS total_sold
		FROM items i
		LEFT JOIN order_lines ol ON ol.item_id = i.id
		GROUP BY i.id, i.name
		ORDER BY total_sold ` + direction + `, i.id
		LIMIT 1`

	var sales models.ItemSales
	err := sqlx.GetContext(ctx, q.ext, &sales, query)
	if err == sql.ErrNoRows {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sales, nil
}

// RevenueByItem returns realized revenue per item across all order lines
func (q *Queries) RevenueByItem(ctx context.Context) ([]models.ItemRevenue, error) {
	query := `
		SELECT i.id AS item_id, i.name,
		       COALESCE(SUM(ol.quantity * ol.unit_price), 0) AS revenue
		FROM items i
		LEFT JOIN order_lines ol ON ol.item_id = i.id
		GROUP BY i.id, i.name
		ORDER BY revenue DESC, i.id`

	revenues := []models.ItemRevenue{}
	err := sqlx.SelectContext(ctx, q.ext, &revenues, query)
	return revenues, err
}
