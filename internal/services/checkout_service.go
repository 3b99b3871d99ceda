package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"farmmart/internal/caching"
	"farmmart/internal/common"
	"farmmart/internal/models"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CheckoutService turns a buyer's cart into a committed order. The whole
// checkout runs in one transaction: every line's reservation, the order row
// and its lines commit together or not at all, so a late failure rolls back
// reservations made for earlier lines and no partial order is ever visible.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, cart []models.CartLine) (*models.Order, error)
}

const maxLineQuantity = 10000

type checkoutService struct {
	db         repositories.TxStarter
	products   repositories.ProductRepository
	orders     repositories.OrderRepository
	orderLines repositories.OrderLineRepository
	ledger     InventoryLedger
	cacheSvc   caching.CacheService
}

func NewCheckoutService(db repositories.TxStarter, products repositories.ProductRepository, orders repositories.OrderRepository, orderLines repositories.OrderLineRepository, ledger InventoryLedger, cacheSvc caching.CacheService) CheckoutService {
	return &checkoutService{
		db:         db,
		products:   products,
		orders:     orders,
		orderLines: orderLines,
		ledger:     ledger,
		cacheSvc:   cacheSvc,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, cart []models.CartLine) (*models.Order, error) {
	// Validation happens before any storage call. A cart with any invalid
	// line fails whole; lines are never silently skipped.
	if buyerID == uuid.Nil {
		return nil, &common.ValidationError{Field: "buyer_id", Message: "is required"}
	}
	if len(cart) == 0 {
		return nil, common.ErrEmptyCart
	}
	for _, line := range cart {
		if line.ProductID == uuid.Nil {
			return nil, &common.ValidationError{Field: "product_id", Message: "is required"}
		}
		if err := common.ValidatePositiveInteger(line.Quantity, "quantity", maxLineQuantity); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	products := s.products.WithTx(tx)
	ledger := s.ledger.WithTx(tx)

	orderID := uuid.New()
	staged := make([]*models.OrderLine, 0, len(cart))
	farmers := make(map[uuid.UUID]struct{})
	for _, line := range cart {
		product, err := products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, common.ErrProductNotFound
			}
			return nil, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}

		if err := ledger.Reserve(ctx, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		farmers[product.FarmerID] = struct{}{}

		// Snapshot name and current price; committed lines are decoupled
		// from later catalog edits.
		staged = append(staged, &models.OrderLine{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.UnitPrice,
		})
	}

	order := &models.Order{
		ID:          orderID,
		BuyerID:     buyerID,
		Status:      models.OrderStatusPending,
		TotalAmount: models.OrderTotal(staged),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	lineRepo := s.orderLines.WithTx(tx)
	for _, line := range staged {
		if err := lineRepo.Create(ctx, line); err != nil {
			return nil, fmt.Errorf("create order line for product %s: %w", line.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	// The new order belongs in each seller's sales report; drop their cached
	// copies so the next read rebuilds.
	for farmerID := range farmers {
		if err := s.cacheSvc.DeleteSalesReport(ctx, farmerID); err != nil {
			log.Printf("Failed to invalidate sales report for farmer %s: %v", farmerID, err)
		}
	}
	return order, nil
}
