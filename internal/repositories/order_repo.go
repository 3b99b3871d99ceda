package repositories

import (
	"context"

	"farmmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.Order, error)

	// UpdateStatusIf sets the status only when the order currently holds
	// expected. Zero rows affected means the order is missing or in another
	// state, which the caller disambiguates.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next string) (int64, error)

	// ListByFarmer returns committed (non-cancelled) orders containing at
	// least one product owned by the farmer, newest first.
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*models.Order, error)
	// ProductSalesByFarmer aggregates committed line quantities and revenue
	// per product owned by the farmer.
	ProductSalesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*models.ProductSales, error)
	// FarmerIDsForOrder returns the distinct farmers whose products appear
	// on the order's lines.
	FarmerIDsForOrder(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error)

	WithTx(tx pgx.Tx) OrderRepository
}

type orderRepo struct {
	db Querier
}

func NewOrderRepo(db Querier) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) WithTx(tx pgx.Tx) OrderRepository {
	return &orderRepo{db: tx}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, buyer_id, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.BuyerID, order.Status, order.TotalAmount)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, buyer_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.BuyerID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, buyer_id, status, total_amount, created_at, updated_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next string) (int64, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, expected, next)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.buyer_id, o.status, o.total_amount, o.created_at, o.updated_at
		FROM orders o
		JOIN order_lines ol ON ol.order_id = o.id
		JOIN products p ON p.id = ol.product_id
		WHERE p.farmer_id = $1 AND o.status <> 'cancelled'
		ORDER BY o.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *orderRepo) ProductSalesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*models.ProductSales, error) {
	query := `
		SELECT ol.product_id, ol.product_name, SUM(ol.quantity), SUM(ol.quantity * ol.unit_price)
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		JOIN products p ON p.id = ol.product_id
		WHERE p.farmer_id = $1 AND o.status <> 'cancelled'
		GROUP BY ol.product_id, ol.product_name
		ORDER BY SUM(ol.quantity * ol.unit_price) DESC
	`
	rows, err := r.db.Query(ctx, query, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.ProductSales
	for rows.Next() {
		entry := &models.ProductSales{}
		if err := rows.Scan(&entry.ProductID, &entry.Name, &entry.TotalQuantity, &entry.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, entry)
	}
	return sales, rows.Err()
}

func (r *orderRepo) FarmerIDsForOrder(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT p.farmer_id
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = $1
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.BuyerID, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
