package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_KeysMessagesByOrderID(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{writer: fw}

	e := New(TypeOrderCreated, "order_1", "created", 200)
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, fw.msgs, 1)
	assert.Equal(t, []byte("order_1"), fw.msgs[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, e, got)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestNop_DiscardsEverything(t *testing.T) {
	p := Nop{}
	require.NoError(t, p.Publish(context.Background(), New(TypeOrderPaid, "order_1", "paid", 0)))
	require.NoError(t, p.Close())
}
