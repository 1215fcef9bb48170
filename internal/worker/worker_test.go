package worker

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, threshold int) (*InventoryWorker, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.NewStoreWithDB(sqlx.NewDb(db, "sqlmock"))
	return NewInventoryWorker(nil, s, nil, threshold), mock
}

func TestHandleOrderPlacedChecksStock(t *testing.T) {
	w, mock := newTestWorker(t, 5)

	mock.ExpectQuery(`SELECT \* FROM items WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "stock_quantity", "created_at"}).
			AddRow(1, "Widget", "", 10.0, 2, time.Now()))

	event := &models.OrderPlacedEvent{
		OrderID: 10,
		Lines:   []models.OrderLineData{{ItemID: 1, Quantity: 3, UnitPrice: 10.0}},
	}

	assert.NoError(t, w.handleOrderPlaced(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderUpdatedChecksBothLineSets(t *testing.T) {
	w, mock := newTestWorker(t, 1)
	columns := []string{"id", "name", "description", "price", "stock_quantity", "created_at"}

	mock.ExpectQuery(`SELECT \* FROM items WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(2, "Gadget", "", 25.0, 3, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM items WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Widget", "", 10.0, 7, time.Now()))

	event := &models.OrderUpdatedEvent{
		OrderID:       10,
		Lines:         []models.OrderLineData{{ItemID: 2, Quantity: 1}},
		ReleasedLines: []models.OrderLineData{{ItemID: 1, Quantity: 2}},
	}

	assert.NoError(t, w.handleOrderUpdated(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderDeletedToleratesMissingItem(t *testing.T) {
	w, mock := newTestWorker(t, 5)

	mock.ExpectQuery(`SELECT \* FROM items WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(context.DeadlineExceeded)

	event := &models.OrderDeletedEvent{
		OrderID: 10,
		Lines:   []models.OrderLineData{{ItemID: 42, Quantity: 1}},
	}

	// Item load failures are logged and skipped, not propagated
	assert.NoError(t, w.handleOrderDeleted(context.Background(), event))
}
