package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"farmmart/internal/caching"
	"farmmart/internal/models"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
)

// ReportService builds the farmer sales read model on demand from committed
// orders. It keeps no materialized state; redis only shortens repeated reads
// and a stale entry is acceptable for its short TTL.
type ReportService interface {
	GetSalesReportForFarmer(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error)
	RefreshSalesReport(ctx context.Context, farmerID uuid.UUID) error
}

const salesReportTTL = 5 * time.Minute

type reportService struct {
	orders   repositories.OrderRepository
	cacheSvc caching.CacheService
}

func NewReportService(orders repositories.OrderRepository, cacheSvc caching.CacheService) ReportService {
	return &reportService{orders: orders, cacheSvc: cacheSvc}
}

func (s *reportService) GetSalesReportForFarmer(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error) {
	if cached, err := s.cacheSvc.GetSalesReport(ctx, farmerID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Cache error for farmer %s sales report: %v", farmerID, err)
	}

	report, err := s.buildReport(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheSvc.SetSalesReport(ctx, report, salesReportTTL); cacheErr != nil {
		log.Printf("Failed to cache sales report for farmer %s: %v", farmerID, cacheErr)
	}
	return report, nil
}

// RefreshSalesReport recomputes and rewrites the cached report. Used by the
// background scheduler to keep hot dashboards warm.
func (s *reportService) RefreshSalesReport(ctx context.Context, farmerID uuid.UUID) error {
	report, err := s.buildReport(ctx, farmerID)
	if err != nil {
		return err
	}
	return s.cacheSvc.SetSalesReport(ctx, report, salesReportTTL)
}

func (s *reportService) buildReport(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error) {
	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list orders for farmer %s: %w", farmerID, err)
	}
	sales, err := s.orders.ProductSalesByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales for farmer %s: %w", farmerID, err)
	}

	var totalRevenue float64
	for _, entry := range sales {
		totalRevenue += entry.Revenue
	}

	if sales == nil {
		sales = []*models.ProductSales{}
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return &models.SalesReport{
		FarmerID:     farmerID,
		TotalOrders:  len(orders),
		TotalRevenue: totalRevenue,
		ProductSales: sales,
		Orders:       orders,
	}, nil
}
