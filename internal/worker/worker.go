package worker

import (
	"context"
	"log"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// InventoryWorker consumes order lifecycle events, drops stale item cache
// entries, and emits low stock warnings for items that dropped below the
// configured threshold.
type InventoryWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	cache        *redisclient.Client
	threshold    int
	logger       *zap.Logger
}

// NewInventoryWorker creates a new inventory worker
func NewInventoryWorker(
	consumer *broker.Consumer,
	store *store.Store,
	cache *redisclient.Client,
	lowStockThreshold int,
) *InventoryWorker {
	w := &InventoryWorker{
		consumer:  consumer,
		store:     store,
		cache:     cache,
		threshold: lowStockThreshold,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	eventHandler.OnOrderUpdated(w.handleOrderUpdated)
	eventHandler.OnOrderDeleted(w.handleOrderDeleted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *InventoryWorker) Start(ctx context.Context) error {
	log.Println("Starting inventory worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *InventoryWorker) Stop() error {
	log.Println("Stopping inventory worker...")
	return w.consumer.Close()
}

func (w *InventoryWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	w.refreshItems(ctx, event.Lines)
	return nil
}

func (w *InventoryWorker) handleOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	w.refreshItems(ctx, event.Lines)
	w.refreshItems(ctx, event.ReleasedLines)
	return nil
}

func (w *InventoryWorker) handleOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	w.refreshItems(ctx, event.Lines)
	return nil
}

// refreshItems invalidates cache entries for items touched by an event and
// checks each against the low stock threshold
func (w *InventoryWorker) refreshItems(ctx context.Context, lines []models.OrderLineData) {
	for _, line := range lines {
		if w.cache != nil {
			if err := w.cache.InvalidateItems(ctx, line.ItemID); err != nil {
				w.logger.Warn("Failed to invalidate item cache",
					zap.Int64("item_id", line.ItemID), zap.Error(err))
			}
		}

		item, err := w.store.GetItem(ctx, line.ItemID)
		if err != nil {
			w.logger.Warn("Failed to load item for stock check",
				zap.Int64("item_id", line.ItemID), zap.Error(err))
			continue
		}

		if item.StockQuantity < w.threshold {
			util.LowStockWarningsTotal.Inc()
			w.logger.Warn("Item stock below threshold",
				zap.Int64("item_id", item.ID),
				zap.String("name", item.Name),
				zap.Int("stock_quantity", item.StockQuantity),
				zap.Int("threshold", w.threshold))
		}
	}
}
