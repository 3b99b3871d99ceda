package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"farmmart/internal/caching"
	"farmmart/internal/common"
	"farmmart/internal/models"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderService governs the order lifecycle after checkout. Cancellation is
// the only transition with side effects: the order's committed quantities go
// back to the inventory ledger in the same transaction as the status change,
// so repeated cancel/reorder cycles never shrink available stock.
type OrderService interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []*models.OrderLine, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Process(ctx context.Context, orderID uuid.UUID) error
	Complete(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	db         repositories.TxStarter
	orders     repositories.OrderRepository
	orderLines repositories.OrderLineRepository
	ledger     InventoryLedger
	cacheSvc   caching.CacheService
}

func NewOrderService(db repositories.TxStarter, orders repositories.OrderRepository, orderLines repositories.OrderLineRepository, ledger InventoryLedger, cacheSvc caching.CacheService) OrderService {
	return &orderService{
		db:         db,
		orders:     orders,
		orderLines: orderLines,
		ledger:     ledger,
		cacheSvc:   cacheSvc,
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []*models.OrderLine, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, common.ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	lines, err := s.orderLines.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("list lines for order %s: %w", orderID, err)
	}
	return order, lines, nil
}

func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID, limit, offset)
}

// Cancel moves a pending order to cancelled and restores every line's
// quantity to the ledger. Status change and releases are one atomic unit.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancellation transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	orders := s.orders.WithTx(tx)
	affected, err := orders.UpdateStatusIf(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if affected == 0 {
		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.ErrOrderNotFound
			}
			return fmt.Errorf("look up order %s after failed cancel: %w", orderID, err)
		}
		return &common.InvalidTransitionError{OrderID: orderID, From: order.Status, To: models.OrderStatusCancelled}
	}

	lines, err := s.orderLines.WithTx(tx).ListByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list lines for order %s: %w", orderID, err)
	}
	ledger := s.ledger.WithTx(tx)
	for _, line := range lines {
		if err := ledger.Release(ctx, line.ProductID, line.Quantity); err != nil {
			// The product was deleted from the catalog after purchase;
			// there is no stock row to restore.
			if errors.Is(err, common.ErrProductNotFound) {
				log.Printf("Skipping stock release for deleted product %s on order %s", line.ProductID, orderID)
				continue
			}
			return err
		}
	}

	farmerIDs, err := orders.FarmerIDsForOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list farmers for order %s: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}

	// Cancelled orders leave the sales read model; stale cached reports
	// would keep counting them until the TTL expired.
	s.invalidateSalesReports(ctx, farmerIDs)
	return nil
}

func (s *orderService) invalidateSalesReports(ctx context.Context, farmerIDs []uuid.UUID) {
	for _, farmerID := range farmerIDs {
		if err := s.cacheSvc.DeleteSalesReport(ctx, farmerID); err != nil {
			log.Printf("Failed to invalidate sales report for farmer %s: %v", farmerID, err)
		}
	}
}

func (s *orderService) Process(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, models.OrderStatusPending, models.OrderStatusProcessing)
}

func (s *orderService) Complete(ctx context.Context, orderID uuid.UUID) error {
	return s.transition(ctx, orderID, models.OrderStatusProcessing, models.OrderStatusCompleted)
}

// transition performs a guarded status update. The requested pair must be in
// the lifecycle matrix, and the conditional UPDATE keeps the check and the
// write in one statement.
func (s *orderService) transition(ctx context.Context, orderID uuid.UUID, from, to string) error {
	if !models.ValidOrderTransition(from, to) {
		return &common.InvalidTransitionError{OrderID: orderID, From: from, To: to}
	}

	affected, err := s.orders.UpdateStatusIf(ctx, orderID, from, to)
	if err != nil {
		return fmt.Errorf("move order %s to %s: %w", orderID, to, err)
	}
	if affected > 0 {
		return nil
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrOrderNotFound
		}
		return fmt.Errorf("look up order %s after failed transition: %w", orderID, err)
	}
	return &common.InvalidTransitionError{OrderID: orderID, From: order.Status, To: to}
}
