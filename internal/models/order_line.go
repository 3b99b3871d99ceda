package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine snapshots the product name and unit price at checkout time, so
// later catalog edits or deletions never change a committed order. Lines are
// immutable once created.
type OrderLine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
