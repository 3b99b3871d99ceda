package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmmart/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts redis for read-mostly data. Cache failures are never
// fatal; callers log and fall through to the database.
type CacheService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	GetSalesReport(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error)
	SetSalesReport(ctx context.Context, report *models.SalesReport, ttl time.Duration) error
	DeleteSalesReport(ctx context.Context, farmerID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("farmmart:product:%s", productID.String())
}

func salesReportKey(farmerID uuid.UUID) string {
	return fmt.Sprintf("farmmart:report:farmer:%s", farmerID.String())
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) GetSalesReport(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error) {
	data, err := r.client.Get(ctx, salesReportKey(farmerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var report models.SalesReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *redisCacheService) SetSalesReport(ctx context.Context, report *models.SalesReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, salesReportKey(report.FarmerID), data, ttl).Err()
}

func (r *redisCacheService) DeleteSalesReport(ctx context.Context, farmerID uuid.UUID) error {
	return r.client.Del(ctx, salesReportKey(farmerID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
