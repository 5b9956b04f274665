package order

import (
	"context"
	"encoding/json"
	"time"
)

const (
	StatusCreated = "created"
	StatusPaid    = "paid"
)

type Item struct {
	Title string `json:"title"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

// Order is a requested purchase. Amount is always recomputed server-side
// from the items; Customer is stored opaque and unvalidated.
type Order struct {
	ID        string          `json:"orderId"`
	Items     []Item          `json:"items"`
	Customer  json.RawMessage `json:"customer,omitempty"`
	Amount    int64           `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	// UpdateStatus reports whether the order existed; an unknown ID is
	// not an error.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	Ping(ctx context.Context) error
}
