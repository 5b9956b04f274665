package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in a slice so list order is the load order.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore(products []Product) *MemStore {
	return &MemStore{products: products}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
