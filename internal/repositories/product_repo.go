package repositories

import (
	"context"

	"farmmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*models.Product, error)
	ListBelowQuantity(ctx context.Context, threshold, limit int) ([]*models.Product, error)
	SetImageObject(ctx context.Context, id uuid.UUID, objectName string) error

	// DecrementQuantity subtracts qty only when enough stock is available.
	// The WHERE predicate makes check-and-decrement one atomic statement;
	// zero rows affected means the product is missing or short on stock.
	DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error)
	// IncrementQuantity adds qty back (cancellation path).
	IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error)

	// WithTx returns a copy of the repository bound to tx so calls join the
	// caller's transaction.
	WithTx(tx pgx.Tx) ProductRepository
}

type productRepo struct {
	db Querier
}

func NewProductRepo(db Querier) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) WithTx(tx pgx.Tx) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, farmer_id, name, unit_price, quantity, image_object, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.FarmerID, product.Name, product.UnitPrice, product.Quantity, product.ImageObject)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, farmer_id, name, unit_price, quantity, image_object, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.FarmerID, &product.Name, &product.UnitPrice, &product.Quantity, &product.ImageObject, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, unit_price = $2, quantity = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.UnitPrice, product.Quantity, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, farmer_id, name, unit_price, quantity, image_object, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, farmer_id, name, unit_price, quantity, image_object, created_at, updated_at
		FROM products
		WHERE farmer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, farmerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) ListBelowQuantity(ctx context.Context, threshold, limit int) ([]*models.Product, error) {
	query := `
		SELECT id, farmer_id, name, unit_price, quantity, image_object, created_at, updated_at
		FROM products
		WHERE quantity <= $1
		ORDER BY quantity ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepo) SetImageObject(ctx context.Context, id uuid.UUID, objectName string) error {
	query := `
		UPDATE products
		SET image_object = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, objectName, id)
	return err
}

func (r *productRepo) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`
	tag, err := r.db.Exec(ctx, query, id, qty)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *productRepo) IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	query := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, qty)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.FarmerID, &product.Name, &product.UnitPrice, &product.Quantity, &product.ImageObject, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
