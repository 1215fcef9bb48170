package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Queries runs statements against either the connection pool or an open
// transaction. Workflow code that needs atomicity gets a transaction-scoped
// Queries via Store.WithTx.
type Queries struct {
	ext sqlx.ExtContext
}

// Store is the database handle. It is injected into services explicitly,
// never held as a package global.
type Store struct {
	Queries
	db *sqlx.DB
}

// NewStore connects to the database and returns a store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{Queries: Queries{ext: db}, db: db}, nil
}

// NewStoreWithDB wraps an existing connection, used by tests
func NewStoreWithDB(db *sqlx.DB) *Store {
	return &Store{Queries: Queries{ext: db}, db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a single transaction. The transaction is rolled
// back if fn returns an error or panics, committed otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{ext: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateItem inserts a new item
func (q *Queries) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (name, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return sqlx.GetContext(ctx, q.ext, item, query,
		item.Name, item.Description, item.Price, item.StockQuantity)
}

// GetItem retrieves an item by ID
func (q *Queries) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := sqlx.GetContext(ctx, q.ext, &item, "SELECT * FROM items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, &models.ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemForUpdate retrieves an item by ID with a row lock. Only valid
// inside a transaction.
func (q *Queries) GetItemForUpdate(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := sqlx.GetContext(ctx, q.ext, &item, "SELECT * FROM items WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, &models.ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems retrieves items with offset/limit pagination
func (q *Queries) ListItems(ctx context.Context, offset, limit int) ([]models.Item, error) {
	items := []models.Item{}
	err := sqlx.SelectContext(ctx, q.ext, &items,
		"SELECT * FROM items ORDER BY id OFFSET $1 LIMIT $2", offset, limit)
	return items, err
}

// UpdateItem replaces all mutable fields of an item
func (q *Queries) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := q.ext.ExecContext(ctx,
		"UPDATE items SET name = $1, description = $2, price = $3, stock_quantity = $4 WHERE id = $5",
		item.Name, item.Description, item.Price, item.StockQuantity, item.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &models.ItemNotFoundError{ItemID: item.ID}
	}
	return nil
}

// DeleteItem deletes an item by ID
func (q *Queries) DeleteItem(ctx context.Context, id int64) error {
	res, err := q.ext.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &models.ItemNotFoundError{ItemID: id}
	}
	return nil
}

// AdjustStock changes an item's stock by delta and returns the updated item.
// Delta may be negative; callers pre-validate sufficiency before decrements.
func (q *Queries) AdjustStock(ctx context.Context, id int64, delta int) (*models.Item, error) {
	var item models.Item
	err := sqlx.GetContext(ctx, q.ext, &item,
		"UPDATE items SET stock_quantity = stock_quantity + $1 WHERE id = $2 RETURNING *",
		delta, id)
	if err == sql.ErrNoRows {
		return nil, &models.ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
