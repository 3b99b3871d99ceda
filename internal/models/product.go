package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog entry owned by a farmer. Quantity is the live
// available stock; the database enforces quantity >= 0 and the inventory
// ledger only ever changes it through conditional updates.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FarmerID    uuid.UUID `json:"farmer_id" db:"farmer_id"`
	Name        string    `json:"name" db:"name"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	ImageObject *string   `json:"image_object" db:"image_object"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
