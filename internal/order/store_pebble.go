package order

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
)

const pebbleKeyPrefix = "order/"

// PebbleStore persists orders in an embedded Pebble database, one JSON
// value per order. The mutex serializes UpdateStatus, which is a
// read-modify-write on the stored value.
type PebbleStore struct {
	mu sync.Mutex
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) Ping(ctx context.Context) error { return nil }

func (s *PebbleStore) Create(ctx context.Context, o Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Set(pebbleKey(o.ID), b, pebble.Sync)
}

func (s *PebbleStore) Get(ctx context.Context, id string) (Order, bool, error) {
	v, closer, err := s.db.Get(pebbleKey(id))
	if err == pebble.ErrNotFound {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}
	defer closer.Close()

	var o Order
	if err := json.Unmarshal(v, &o); err != nil {
		return Order{}, false, err
	}
	return o, true, nil
}

func (s *PebbleStore) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok, err := s.Get(ctx, id)
	if err != nil || !ok {
		return false, err
	}

	o.Status = status
	b, err := json.Marshal(o)
	if err != nil {
		return false, err
	}
	if err := s.db.Set(pebbleKey(id), b, pebble.Sync); err != nil {
		return false, err
	}
	return true, nil
}

func pebbleKey(id string) []byte {
	return []byte(pebbleKeyPrefix + id)
}
