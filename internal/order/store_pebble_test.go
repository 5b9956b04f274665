package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleStore_CreateGetRoundTrip(t *testing.T) {
	store, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	in := Order{
		ID:        "order_1",
		Items:     []Item{{Title: "A", Price: 100, Qty: 2}},
		Customer:  []byte(`{"email":"a@example.com"}`),
		Amount:    200,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), in))

	got, found, err := store.Get(context.Background(), "order_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, got)

	_, found, err = store.Get(context.Background(), "order_missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPebbleStore_UpdateStatus(t *testing.T) {
	store, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Create(context.Background(), Order{
		ID:        "order_1",
		Items:     []Item{{Title: "A", Price: 100, Qty: 1}},
		Amount:    100,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}))

	found, err := store.UpdateStatus(context.Background(), "order_1", StatusPaid)
	require.NoError(t, err)
	assert.True(t, found)

	o, _, err := store.Get(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, o.Status)
	assert.Len(t, o.Items, 1)

	found, err = store.UpdateStatus(context.Background(), "order_unknown", StatusPaid)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPebbleStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPebbleStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Create(context.Background(), Order{
		ID:        "order_1",
		Items:     []Item{{Title: "A", Price: 100, Qty: 1}},
		Amount:    100,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}))
	found, err := store.UpdateStatus(context.Background(), "order_1", StatusPaid)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, store.Close())

	reopened, err := NewPebbleStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	o, found, err := reopened.Get(context.Background(), "order_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, int64(100), o.Amount)
}
