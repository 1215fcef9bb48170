package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_updated_total",
		Help: "Total number of orders updated",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	InsufficientStockTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insufficient_stock_total",
		Help: "Total number of order lines rejected for insufficient stock",
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of item stock adjustments",
	}, []string{"direction"})

	LowStockWarningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_warnings_total",
		Help: "Total number of low stock warnings emitted",
	})

	ItemCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "item_cache_hits_total",
		Help: "Total number of item cache hits",
	})

	ItemCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "item_cache_misses_total",
		Help: "Total number of item cache misses",
	})

	OrderWorkflowLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_workflow_latency_seconds",
		Help:    "Latency of order workflow operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
