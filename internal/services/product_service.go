package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"farmmart/internal/caching"
	"farmmart/internal/common"
	"farmmart/internal/models"
	"farmmart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductService is the farmer-facing catalog. Stock mutations from orders do
// NOT go through here; they belong to the inventory ledger.
type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, farmerID uuid.UUID, product *models.Product) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*models.Product, error)
	AttachImage(ctx context.Context, farmerID, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
}

const (
	productCacheTTL = 10 * time.Minute
	maxUnitPrice    = 1000000.0
	maxStock        = 1000000
)

type productService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
	imageSvc    ImageStorageService
}

func NewProductService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService, imageSvc ImageStorageService) ProductService {
	return &productService{
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
		imageSvc:    imageSvc,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name", 100); err != nil {
		return err
	}
	if err := common.ValidatePositiveFloat(product.UnitPrice, "unit_price", maxUnitPrice); err != nil {
		return err
	}
	if product.Quantity < 0 || product.Quantity > maxStock {
		return &common.ValidationError{Field: "quantity", Message: "must be a non-negative integer"}
	}
	if product.FarmerID == uuid.Nil {
		return &common.ValidationError{Field: "farmer_id", Message: "is required"}
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheSvc.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Cache error for product %s: %v", id, err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	if cacheErr := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache product %s: %v", id, cacheErr)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, farmerID uuid.UUID, product *models.Product) error {
	existing, err := s.ownedProduct(ctx, farmerID, product.ID)
	if err != nil {
		return err
	}
	if err := common.ValidateRequiredString(product.Name, "name", 100); err != nil {
		return err
	}
	if err := common.ValidatePositiveFloat(product.UnitPrice, "unit_price", maxUnitPrice); err != nil {
		return err
	}
	if product.Quantity < 0 || product.Quantity > maxStock {
		return &common.ValidationError{Field: "quantity", Message: "must be a non-negative integer"}
	}

	product.FarmerID = existing.FarmerID
	product.CreatedAt = existing.CreatedAt
	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("update product %s: %w", product.ID, err)
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *productService) Delete(ctx context.Context, farmerID, id uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, farmerID, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.ListByFarmer(ctx, farmerID, limit, offset)
}

// AttachImage stores the image object and records its name on the product.
// Returns a presigned GET URL for immediate display.
func (s *productService) AttachImage(ctx context.Context, farmerID, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.ownedProduct(ctx, farmerID, id); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("products/%s", id.String())
	if err := s.imageSvc.Upload(ctx, objectName, reader, size, contentType); err != nil {
		return "", fmt.Errorf("upload image for product %s: %w", id, err)
	}
	if err := s.productRepo.SetImageObject(ctx, id, objectName); err != nil {
		return "", fmt.Errorf("record image for product %s: %w", id, err)
	}
	s.invalidate(ctx, id)

	url, err := s.imageSvc.PresignedURL(objectName, time.Hour)
	if err != nil {
		return "", fmt.Errorf("presign image for product %s: %w", id, err)
	}
	return url, nil
}

func (s *productService) ownedProduct(ctx context.Context, farmerID, id uuid.UUID) (*models.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if existing.FarmerID != farmerID {
		return nil, common.ErrProductNotFound // do not leak other farmers' catalog state
	}
	return existing, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if cacheErr := s.cacheSvc.DeleteProduct(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for product %s: %v", id, cacheErr)
	}
}
