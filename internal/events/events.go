package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
)

// Event is one order lifecycle change, keyed by order ID so a partitioned
// consumer sees each order's events in sequence.
type Event struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
	Amount  int64  `json:"amount,omitempty"`
	TS      int64  `json:"ts"`
}

func New(typ, orderID, status string, amount int64) Event {
	return Event{
		Type:    typ,
		OrderID: orderID,
		Status:  status,
		Amount:  amount,
		TS:      time.Now().UnixMilli(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events; the default when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// NewKafkaPublisher publishes to topic on a comma-separated broker list.
func NewKafkaPublisher(bootstrap, topic string) *KafkaPublisher {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		if a = strings.TrimSpace(a); a != "" {
			brokers = append(brokers, a)
		}
	}

	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID),
		Value: b,
	})
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
