package repositories

import (
	"context"

	"farmmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderLineRepository interface {
	Create(ctx context.Context, line *models.OrderLine) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderLine, error)
	WithTx(tx pgx.Tx) OrderLineRepository
}

type orderLineRepo struct {
	db Querier
}

func NewOrderLineRepo(db Querier) OrderLineRepository {
	return &orderLineRepo{db: db}
}

func (r *orderLineRepo) WithTx(tx pgx.Tx) OrderLineRepository {
	return &orderLineRepo{db: tx}
}

func (r *orderLineRepo) Create(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, product_name, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, line.ID, line.OrderID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice)
	return err
}

func (r *orderLineRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line := &models.OrderLine{}
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
