package services

import (
	"context"
	"errors"
	"fmt"

	"farmmart/internal/common"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InventoryLedger owns the available quantity of every product. Reserve is
// the single shared-mutation point: the check-and-decrement happens in one
// conditional UPDATE, so two concurrent checkouts for the last unit cannot
// both succeed. There are no retries; failures surface to the caller, which
// decides whether to abort a wider transaction.
type InventoryLedger interface {
	Reserve(ctx context.Context, productID uuid.UUID, quantity int) error
	Release(ctx context.Context, productID uuid.UUID, quantity int) error
	WithTx(tx pgx.Tx) InventoryLedger
}

type inventoryLedger struct {
	products repositories.ProductRepository
}

func NewInventoryLedger(products repositories.ProductRepository) InventoryLedger {
	return &inventoryLedger{products: products}
}

func (l *inventoryLedger) WithTx(tx pgx.Tx) InventoryLedger {
	return &inventoryLedger{products: l.products.WithTx(tx)}
}

func (l *inventoryLedger) Reserve(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return &common.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}

	affected, err := l.products.DecrementQuantity(ctx, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock for product %s: %w", productID, err)
	}
	if affected > 0 {
		return nil
	}

	// The conditional update matched nothing: either the product does not
	// exist or it is short on stock.
	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrProductNotFound
		}
		return fmt.Errorf("look up product %s after failed reserve: %w", productID, err)
	}
	return &common.InsufficientStockError{ProductName: product.Name}
}

func (l *inventoryLedger) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return &common.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}

	affected, err := l.products.IncrementQuantity(ctx, productID, quantity)
	if err != nil {
		return fmt.Errorf("release stock for product %s: %w", productID, err)
	}
	if affected == 0 {
		return common.ErrProductNotFound
	}
	return nil
}
