package service

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// ItemService is a thin pass-through over the inventory store with a
// cache-first read path. Unlike order updates, item updates replace all
// provided fields unconditionally.
type ItemService struct {
	store    *store.Store
	cache    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewItemService creates a new item service. Cache may be nil.
func NewItemService(store *store.Store, cache *redisclient.Client, cacheTTL time.Duration) *ItemService {
	return &ItemService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// CreateItemRequest represents a request to create or replace an item
type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"min=0"`
	StockQuantity int     `json:"stock_quantity" binding:"min=0"`
}

// CreateItem creates a new catalog item
func (s *ItemService) CreateItem(ctx context.Context, req *CreateItemRequest) (*models.Item, error) {
	item := &models.Item{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// GetItem retrieves an item, cache first
func (s *ItemService) GetItem(ctx context.Context, itemID int64) (*models.Item, error) {
	if s.cache != nil {
		item, err := s.cache.GetItem(ctx, itemID)
		if err == nil {
			util.ItemCacheHits.Inc()
			return item, nil
		}
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			s.logger.Warn("Item cache read failed", zap.Int64("item_id", itemID), zap.Error(err))
		}
		util.ItemCacheMisses.Inc()
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheItem(ctx, item, s.cacheTTL); err != nil {
			s.logger.Warn("Item cache write failed", zap.Int64("item_id", itemID), zap.Error(err))
		}
	}
	return item, nil
}

// ListItems retrieves items with offset/limit pagination
func (s *ItemService) ListItems(ctx context.Context, offset, limit int) ([]models.Item, error) {
	return s.store.ListItems(ctx, offset, limit)
}

// UpdateItem replaces all provided fields of an item
func (s *ItemService) UpdateItem(ctx context.Context, itemID int64, req *CreateItemRequest) (*models.Item, error) {
	item := &models.Item{
		ID:            itemID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidate(ctx, itemID)
	return s.store.GetItem(ctx, itemID)
}

// DeleteItem deletes an item
func (s *ItemService) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, itemID)
	return nil
}

func (s *ItemService) invalidate(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItems(ctx, itemID); err != nil {
		s.logger.Warn("Failed to invalidate item cache", zap.Int64("item_id", itemID), zap.Error(err))
	}
}
