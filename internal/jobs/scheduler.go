package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"farmmart/internal/models"
	"farmmart/internal/repositories"
	"farmmart/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const (
	lowStockThreshold = 10
	lowStockBatchSize = 1000
	refreshWorkers    = 5
)

// Scheduler runs the recurring maintenance jobs: low stock alerts for
// farmers and warm refresh of cached sales reports.
type Scheduler struct {
	scheduler gocron.Scheduler
	products  repositories.ProductRepository
	users     repositories.UserRepository
	reports   services.ReportService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewScheduler(products repositories.ProductRepository, users repositories.UserRepository, reports services.ReportService) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		products:  products,
		users:     users,
		reports:   reports,
		jobs:      make(map[string]gocron.Job),
	}
	s.registerJobs()
	return s, nil
}

func (s *Scheduler) Start() {
	log.Printf("Starting background job scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() {
	alertsJob, err := s.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(s.processLowStockAlerts),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock alerts job: %v", err)
	} else {
		s.jobs["low-stock-alerts"] = alertsJob
	}

	reportsJob, err := s.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(s.refreshSalesReports, context.Background()),
		gocron.WithName("sales-report-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create sales report refresh job: %v", err)
	} else {
		s.jobs["sales-report-refresh"] = reportsJob
	}

	log.Printf("Registered %d background jobs", len(s.jobs))
}

// processLowStockAlerts logs every product at or below the stock threshold so
// farmers can restock before checkout starts rejecting orders.
func (s *Scheduler) processLowStockAlerts() error {
	ctx := context.Background()
	products, err := s.products.ListBelowQuantity(ctx, lowStockThreshold, lowStockBatchSize)
	if err != nil {
		log.Printf("Failed to load low stock products: %v", err)
		return err
	}

	for _, product := range products {
		log.Printf("ALERT: product %q (%s) of farmer %s is low on stock: %d left",
			product.Name, product.ID, product.FarmerID, product.Quantity)
	}
	log.Printf("Low stock check completed, %d products below threshold", len(products))
	return nil
}

// refreshSalesReports recomputes the cached sales report for every farmer.
func (s *Scheduler) refreshSalesReports(ctx context.Context) error {
	farmerIDs, err := s.users.ListIDsByRole(ctx, models.RoleFarmer)
	if err != nil {
		log.Printf("Failed to list farmers for report refresh: %v", err)
		return err
	}

	semaphore := make(chan struct{}, refreshWorkers)
	var wg sync.WaitGroup
	for _, farmerID := range farmerIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := s.reports.RefreshSalesReport(ctx, id); err != nil {
				log.Printf("Failed to refresh sales report for farmer %s: %v", id, err)
			}
		}(farmerID)
	}
	wg.Wait()

	log.Printf("Completed sales report refresh for %d farmers", len(farmerIDs))
	return nil
}

// JobStatus reports the registered job names for the readiness payload.
func (s *Scheduler) JobStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(s.jobs),
		"jobs":       names,
	}
}
