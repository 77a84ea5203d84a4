package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/partition"
)

const writeTimeout = 10 * time.Second

// messageWriter is the subset of *kafkago.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher implements storage.Publisher by writing curated events to a topic.
// Messages are keyed by event id so that replays land on the same partition.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher: topic is required")
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafkago.RequireAll,
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
	}

	slog.Info("[Kafka] Publisher configured", "brokers", brokers, "topic", topic)
	return &Publisher{writer: w, topic: topic}, nil
}

// Publish writes one message per event. An empty batch is a no-op.
func (p *Publisher) Publish(ctx context.Context, events []*v1.CanonicalEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs, err := buildMessages(events, time.Now().UTC())
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("kafka publisher: write %d messages to %s: %w", len(msgs), p.topic, err)
	}

	slog.Debug("[Kafka] Published curated events", "count", len(msgs), "topic", p.topic)
	return nil
}

func buildMessages(events []*v1.CanonicalEvent, now time.Time) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: marshal %s: %w", evt.ID, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(evt.ID),
			Value: data,
			Time:  now,
			Headers: []kafkago.Header{
				{Key: "type", Value: []byte(evt.Type)},
				{Key: "partition", Value: []byte(evt.Metadata.Partition)},
				{Key: "object-key", Value: []byte(partition.ObjectKey(evt.Metadata.Partition, evt.ID, "json"))},
			},
		})
	}
	return msgs, nil
}

// Close flushes pending writes and closes the writer.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka publisher: close: %w", err)
	}
	return nil
}
