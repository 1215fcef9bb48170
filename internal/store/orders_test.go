package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"shop-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderColumns() []string {
	return []string{"id", "customer_name", "customer_email", "status", "total_amount", "created_at", "updated_at"}
}

func lineColumns() []string {
	return []string{"id", "order_id", "item_id", "quantity", "unit_price"}
}

func TestCreateOrder(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Alice", "alice@example.com", models.OrderStatusPending, 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(10, now, now))

	order := &models.Order{
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Status:        models.OrderStatusPending,
	}
	err := s.CreateOrder(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder(t *testing.T) {
	s, mock := newTestStore(t)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(orderColumns()).
				AddRow(10, "Alice", "alice@example.com", "pending", 50.0, time.Now(), time.Now()))

		order, err := s.GetOrder(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 50.0, order.TotalAmount)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM orders WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetOrder(context.Background(), 404)
		assert.True(t, errors.Is(err, models.ErrOrderNotFound))
	})
}

func TestSaveOrder(t *testing.T) {
	s, mock := newTestStore(t)
	updated := time.Now()

	mock.ExpectQuery("UPDATE orders").
		WithArgs("Bob", "bob@example.com", "confirmed", int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	order := &models.Order{
		ID:            10,
		CustomerName:  "Bob",
		CustomerEmail: "bob@example.com",
		Status:        "confirmed",
	}
	err := s.SaveOrder(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, updated, order.UpdatedAt)
}

func TestCreateOrderLine(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("INSERT INTO order_lines").
		WithArgs(int64(10), int64(1), 3, 10.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

	line := &models.OrderLine{OrderID: 10, ItemID: 1, Quantity: 3, UnitPrice: 10.0}
	err := s.CreateOrderLine(context.Background(), line)

	require.NoError(t, err)
	assert.Equal(t, int64(100), line.ID)
}

func TestGetOrderLines(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT \* FROM order_lines WHERE order_id = \$1 ORDER BY id`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(lineColumns()).
			AddRow(100, 10, 1, 3, 10.0).
			AddRow(101, 10, 2, 1, 25.0))

	lines, err := s.GetOrderLines(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, 25.0, lines[1].UnitPrice)
}

func TestUpdateOrderTotal(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery("UPDATE orders").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow(55.0))

	total, err := s.UpdateOrderTotal(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 55.0, total)
}

func TestDeleteOrder(t *testing.T) {
	s, mock := newTestStore(t)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM orders").
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.DeleteOrder(context.Background(), 10))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM orders").
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.DeleteOrder(context.Background(), 404)
		assert.True(t, errors.Is(err, models.ErrOrderNotFound))
	})
}

func TestReports(t *testing.T) {
	s, mock := newTestStore(t)
	salesColumns := []string{"item_id", "name", "total_sold"}

	t.Run("TopSelling", func(t *testing.T) {
		mock.ExpectQuery("ORDER BY total_sold DESC").
			WillReturnRows(sqlmock.NewRows(salesColumns).AddRow(1, "Widget", 42))

		sales, err := s.TopSellingItem(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, sales.TotalSold)
	})

	t.Run("LeastSelling", func(t *testing.T) {
		mock.ExpectQuery("ORDER BY total_sold ASC").
			WillReturnRows(sqlmock.NewRows(salesColumns).AddRow(2, "Gadget", 0))

		sales, err := s.LeastSellingItem(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Gadget", sales.Name)
	})

	t.Run("Revenue", func(t *testing.T) {
		mock.ExpectQuery(`ol\.unit_price\), 0\) AS revenue`).
			WillReturnRows(sqlmock.NewRows([]string{"item_id", "name", "revenue"}).
				AddRow(1, "Widget", 420.0).
				AddRow(2, "Gadget", 0.0))

		revenues, err := s.RevenueByItem(context.Background())
		require.NoError(t, err)
		require.Len(t, revenues, 2)
		assert.Equal(t, 420.0, revenues[0].Revenue)
	})
}
