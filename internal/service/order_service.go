package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/redisclient"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService orchestrates the order workflow: stock validation, line
// creation, inventory adjustment, and total recomputation. Every mutation
// runs inside a single database transaction, so a failed line rolls back
// the whole operation and no partial stock decrement is ever observable.
type OrderService struct {
	store          *store.Store
	cache          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service. Cache and eventPublisher
// may be nil; the workflow then skips invalidation and publishing.
func NewOrderService(
	store *store.Store,
	cache *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *OrderService {
	return &OrderService{
		store:          store,
		cache:          cache,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderLineInput represents one requested line
type OrderLineInput struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerName  string           `json:"customer_name" binding:"required"`
	CustomerEmail string           `json:"customer_email" binding:"required,email"`
	Lines         []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents a partial order update. A nil field means
// "leave unchanged"; a present Lines slice wholesale-replaces the order's
// lines, restoring stock held by the old ones.
type UpdateOrderRequest struct {
	CustomerName  *string           `json:"customer_name"`
	CustomerEmail *string           `json:"customer_email"`
	Status        *string           `json:"status"`
	Lines         *[]OrderLineInput `json:"items"`
}

// CreateOrder creates an order with the requested lines. For each line the
// item is locked, stock sufficiency is checked, a line is created with the
// item's current price snapshotted, and stock is decremented. Any failure
// aborts the entire order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderWorkflowLatency.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}()

	var order *models.Order
	var touched []int64

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		order = &models.Order{
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Status:        models.OrderStatusPending,
		}
		if err := q.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, in := range req.Lines {
			itemID, err := s.addLine(ctx, q, order.ID, in)
			if err != nil {
				return err
			}
			touched = append(touched, itemID)
		}

		return s.finishOrder(ctx, q, order)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("lines", len(order.Lines)))

	s.afterMutation(ctx, touched)
	s.publishOrderPlaced(ctx, order)

	return order, nil
}

// UpdateOrder applies a partial update to an order. Scalar fields are
// overwritten only when present in the patch. A present Lines slice
// releases stock held by every existing line, deletes the lines, then
// builds the new set exactly as CreateOrder does.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderWorkflowLatency.WithLabelValues("update").Observe(time.Since(start).Seconds())
	}()

	var order *models.Order
	var touched []int64
	var released []models.OrderLine

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		order, err = q.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if req.CustomerName != nil {
			order.CustomerName = *req.CustomerName
		}
		if req.CustomerEmail != nil {
			order.CustomerEmail = *req.CustomerEmail
		}
		if req.Status != nil {
			if !models.ValidOrderStatus(*req.Status) {
				return fmt.Errorf("%w: %q", models.ErrInvalidStatus, *req.Status)
			}
			order.Status = *req.Status
		}

		if err := q.SaveOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		if req.Lines != nil {
			released, err = q.GetOrderLines(ctx, orderID)
			if err != nil {
				return fmt.Errorf("failed to load order lines: %w", err)
			}

			for _, line := range released {
				if _, err := q.AdjustStock(ctx, line.ItemID, line.Quantity); err != nil {
					return fmt.Errorf("failed to restore stock for item %d: %w", line.ItemID, err)
				}
				touched = append(touched, line.ItemID)
			}

			if err := q.DeleteOrderLines(ctx, orderID); err != nil {
				return fmt.Errorf("failed to delete order lines: %w", err)
			}

			for _, in := range *req.Lines {
				itemID, err := s.addLine(ctx, q, orderID, in)
				if err != nil {
					return err
				}
				touched = append(touched, itemID)
			}
		}

		return s.finishOrder(ctx, q, order)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.OrdersUpdatedTotal.Inc()
	s.logger.Info("Order updated",
		zap.Int64("order_id", order.ID),
		zap.Float64("total_amount", order.TotalAmount))

	s.afterMutation(ctx, touched)
	s.publishOrderUpdated(ctx, order, released)

	return order, nil
}

// DeleteOrder deletes an order, restoring stock held by its lines, and
// returns the pre-deletion snapshot. Lines are removed with the order.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderWorkflowLatency.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	var order *models.Order
	var touched []int64

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		order, err = q.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}

		order.Lines, err = q.GetOrderLines(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order lines: %w", err)
		}

		for _, line := range order.Lines {
			if _, err := q.AdjustStock(ctx, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock for item %d: %w", line.ItemID, err)
			}
			touched = append(touched, line.ItemID)
		}

		return q.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		if !errors.Is(err, models.ErrOrderNotFound) {
			util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		}
		return nil, err
	}

	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.Int64("order_id", order.ID))

	s.afterMutation(ctx, touched)
	s.publishOrderDeleted(ctx, order)

	return order, nil
}

// GetOrder retrieves an order with its lines
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Lines, err = s.store.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders retrieves orders with their lines
func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Lines, err = s.store.GetOrderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// RecomputeTotal recomputes and persists an order's total from its current
// lines, bumping updated_at
func (s *OrderService) RecomputeTotal(ctx context.Context, orderID int64) (float64, error) {
	return s.store.UpdateOrderTotal(ctx, orderID)
}

// addLine validates one requested line against locked item state, creates
// the line with the item's price snapshotted, and decrements stock.
func (s *OrderService) addLine(ctx context.Context, q *store.Queries, orderID int64, in OrderLineInput) (int64, error) {
	item, err := q.GetItemForUpdate(ctx, in.ItemID)
	if err != nil {
		return 0, err
	}

	if item.StockQuantity < in.Quantity {
		util.InsufficientStockTotal.Inc()
		return 0, &models.InsufficientStockError{
			ItemID:    item.ID,
			Available: item.StockQuantity,
			Requested: in.Quantity,
		}
	}

	line := &models.OrderLine{
		OrderID:   orderID,
		ItemID:    item.ID,
		Quantity:  in.Quantity,
		UnitPrice: item.Price,
	}
	if err := q.CreateOrderLine(ctx, line); err != nil {
		return 0, fmt.Errorf("failed to create order line: %w", err)
	}

	if _, err := q.AdjustStock(ctx, item.ID, -in.Quantity); err != nil {
		return 0, fmt.Errorf("failed to decrement stock for item %d: %w", item.ID, err)
	}
	util.StockAdjustmentsTotal.WithLabelValues("decrement").Inc()

	return item.ID, nil
}

// finishOrder recomputes the total and reloads the order's lines before
// the transaction commits
func (s *OrderService) finishOrder(ctx context.Context, q *store.Queries, order *models.Order) error {
	total, err := q.UpdateOrderTotal(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to recompute order total: %w", err)
	}
	order.TotalAmount = total

	order.Lines, err = q.GetOrderLines(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	return nil
}

// afterMutation invalidates cached state for items touched by a committed
// workflow operation
func (s *OrderService) afterMutation(ctx context.Context, itemIDs []int64) {
	if s.cache == nil || len(itemIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateItems(ctx, itemIDs...); err != nil {
		s.logger.Warn("Failed to invalidate item cache", zap.Error(err))
	}
	if err := s.cache.InvalidateReports(ctx, reportNames...); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order) {
	if s.eventPublisher == nil {
		return
	}
	event := &models.OrderPlacedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderPlaced),
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		Lines:         toLineData(order.Lines),
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func (s *OrderService) publishOrderUpdated(ctx context.Context, order *models.Order, released []models.OrderLine) {
	if s.eventPublisher == nil {
		return
	}
	event := &models.OrderUpdatedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderUpdated),
		OrderID:       order.ID,
		TotalAmount:   order.TotalAmount,
		Lines:         toLineData(order.Lines),
		ReleasedLines: toLineData(released),
	}
	if err := s.eventPublisher.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
	}
}

func (s *OrderService) publishOrderDeleted(ctx context.Context, order *models.Order) {
	if s.eventPublisher == nil {
		return
	}
	event := &models.OrderDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderDeleted),
		OrderID:   order.ID,
		Lines:     toLineData(order.Lines),
	}
	if err := s.eventPublisher.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func toLineData(lines []models.OrderLine) []models.OrderLineData {
	data := make([]models.OrderLineData, 0, len(lines))
	for _, line := range lines {
		data = append(data, models.OrderLineData{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return data
}

// failureReason classifies a workflow error for the failure counter
func failureReason(err error) string {
	var insufficient *models.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	case errors.Is(err, models.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, models.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, models.ErrInvalidStatus):
		return "invalid_status"
	default:
		return "db_error"
	}
}
