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

const (
	reportTopSelling   = "top-selling"
	reportLeastSelling = "least-selling"
	reportRevenue      = "revenue"

	reportCacheTTL = 30 * time.Second
)

var reportNames = []string{reportTopSelling, reportLeastSelling, reportRevenue}

// ReportService serves read-only sales aggregates. Results are cached
// briefly and invalidated on every order mutation.
type ReportService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewReportService creates a new report service. Cache may be nil.
func NewReportService(store *store.Store, cache *redisclient.Client) *ReportService {
	return &ReportService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// TopSellingItem returns the item with the highest quantity sold
func (s *ReportService) TopSellingItem(ctx context.Context) (*models.ItemSales, error) {
	var sales models.ItemSales
	if s.cached(ctx, reportTopSelling, &sales) {
		return &sales, nil
	}

	result, err := s.store.TopSellingItem(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheResult(ctx, reportTopSelling, result)
	return result, nil
}

// LeastSellingItem returns the item with the lowest quantity sold
func (s *ReportService) LeastSellingItem(ctx context.Context) (*models.ItemSales, error) {
	var sales models.ItemSales
	if s.cached(ctx, reportLeastSelling, &sales) {
		return &sales, nil
	}

	result, err := s.store.LeastSellingItem(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheResult(ctx, reportLeastSelling, result)
	return result, nil
}

// RevenueByItem returns realized revenue per item
func (s *ReportService) RevenueByItem(ctx context.Context) ([]models.ItemRevenue, error) {
	var revenues []models.ItemRevenue
	if s.cached(ctx, reportRevenue, &revenues) {
		return revenues, nil
	}

	revenues, err := s.store.RevenueByItem(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheResult(ctx, reportRevenue, revenues)
	return revenues, nil
}

func (s *ReportService) cached(ctx context.Context, name string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetReport(ctx, name, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, redisclient.ErrCacheMiss) {
		s.logger.Warn("Report cache read failed", zap.String("report", name), zap.Error(err))
	}
	return false
}

func (s *ReportService) cacheResult(ctx context.Context, name string, payload interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheReport(ctx, name, payload, reportCacheTTL); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("report", name), zap.Error(err))
	}
}
