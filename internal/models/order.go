package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are governed by the order lifecycle service:
// pending -> processing -> completed, or pending -> cancelled.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BuyerID     uuid.UUID `json:"buyer_id" db:"buyer_id"`
	Status      string    `json:"status" db:"status"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CartLine is one requested product/quantity pair in a checkout.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// ValidOrderTransition reports whether an order may move from one status to
// another. Everything not listed here is rejected.
func ValidOrderTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusCompleted
	default:
		return false
	}
}

// OrderTotal recomputes the order total from its lines. The stored
// total_amount is always derived from this, never maintained separately.
func OrderTotal(lines []*OrderLine) float64 {
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}
