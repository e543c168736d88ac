package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Producer publishes events to a Kafka topic.
type Producer struct {
	writer *kafkago.Writer
	log    *slog.Logger
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			Async:        false,
		},
		log: log,
	}
}

// Publish marshals the event and writes it to the topic. The key controls
// partition assignment so events for the same entity stay ordered.
func (p *Producer) Publish(ctx context.Context, key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to %s: %w", p.writer.Topic, err)
	}

	p.log.LogAttrs(ctx, slog.LevelDebug, "event published",
		slog.String("topic", p.writer.Topic),
		slog.String("event_type", event.Type),
		slog.String("event_id", event.ID),
	)
	return nil
}

// Ping verifies that at least one broker is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	addr := p.writer.Addr.String()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial kafka broker %s: %w", addr, err)
	}
	return conn.Close()
}

// Close flushes pending messages and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
