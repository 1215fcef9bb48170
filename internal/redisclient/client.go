package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent from the cache
var ErrCacheMiss = redis.Nil

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func itemKey(itemID int64) string {
	return fmt.Sprintf("item:%d", itemID)
}

// CacheItem stores an item as JSON with a TTL
func (c *Client) CacheItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	return c.rdb.Set(ctx, itemKey(item.ID), data, ttl).Err()
}

// GetItem retrieves a cached item. Returns ErrCacheMiss if absent.
func (c *Client) GetItem(ctx context.Context, itemID int64) (*models.Item, error) {
	data, err := c.rdb.Get(ctx, itemKey(itemID)).Bytes()
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached item: %w", err)
	}
	return &item, nil
}

// InvalidateItems removes cached entries for the given items
func (c *Client) InvalidateItems(ctx context.Context, itemIDs ...int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = itemKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// CacheReport stores a report payload as JSON with a TTL
func (c *Client) CacheReport(ctx context.Context, name string, payload interface{}, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return c.rdb.Set(ctx, fmt.Sprintf("report:%s", name), data, ttl).Err()
}

// GetReport retrieves a cached report payload into dest. Returns
// ErrCacheMiss if absent.
func (c *Client) GetReport(ctx context.Context, name string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, fmt.Sprintf("report:%s", name)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// InvalidateReports removes all cached report payloads
func (c *Client) InvalidateReports(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = fmt.Sprintf("report:%s", name)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
