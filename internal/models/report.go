package models

import "github.com/google/uuid"

// ProductSales aggregates committed sales of one product.
type ProductSales struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	TotalQuantity int       `json:"total_qty"`
	Revenue       float64   `json:"revenue"`
}

// SalesReport is the farmer-facing read model computed on demand from
// committed, non-cancelled orders. It carries no authoritative state.
type SalesReport struct {
	FarmerID     uuid.UUID       `json:"farmer_id"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue float64         `json:"total_revenue"`
	ProductSales []*ProductSales `json:"product_sales"`
	Orders       []*Order        `json:"orders"`
}
