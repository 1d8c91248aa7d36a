// Package events publishes product update events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/varcodes/trackmyprices/internal/metrics"
	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// ProductUpdated is emitted once per product refreshed by a cycle.
type ProductUpdated struct {
	ProductID    string                  `json:"product_id"`
	URL          string                  `json:"url"`
	Title        string                  `json:"title"`
	Price        float64                 `json:"price"`
	Currency     string                  `json:"currency"`
	LowestPrice  float64                 `json:"lowest_price"`
	HighestPrice float64                 `json:"highest_price"`
	AveragePrice float64                 `json:"average_price"`
	Verdict      domain.NotificationKind `json:"verdict"`
	IsOutOfStock bool                    `json:"is_out_of_stock"`
	CycleID      string                  `json:"cycle_id,omitempty"`
	OccurredAt   time.Time               `json:"occurred_at"`
}

// NewProductUpdated builds the event for p.
func NewProductUpdated(
	p *domain.Product,
	verdict domain.NotificationKind,
	cycleID string,
	at time.Time,
) ProductUpdated {
	return ProductUpdated{
		ProductID:    p.ID,
		URL:          p.URL,
		Title:        p.Title,
		Price:        p.CurrentPrice,
		Currency:     p.Currency,
		LowestPrice:  p.LowestPrice,
		HighestPrice: p.HighestPrice,
		AveragePrice: p.AveragePrice,
		Verdict:      verdict,
		IsOutOfStock: p.IsOutOfStock,
		CycleID:      cycleID,
		OccurredAt:   at.UTC(),
	}
}

// Publisher delivers product update events.
type Publisher interface {
	Publish(ctx context.Context, ev ProductUpdated) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON keyed by product id, so all updates
// for one product land on the same partition.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	log    *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithWriter replaces the kafka writer, mainly for tests.
func WithWriter(w MessageWriter) KafkaOption {
	return func(p *KafkaPublisher) {
		p.writer = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.log = l
	}
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, opts ...KafkaOption) *KafkaPublisher {
	p := &KafkaPublisher{
		topic: topic,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           50 * time.Millisecond,
		}
	}
	return p
}

// Publish writes ev to the configured topic.
func (p *KafkaPublisher) Publish(ctx context.Context, ev ProductUpdated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling product event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(ev.ProductID),
		Value: data,
		Time:  ev.OccurredAt,
	})
	if err != nil {
		metrics.EventPublishFailuresTotal.Inc()
		return fmt.Errorf("publishing product event for %s: %w", ev.ProductID, err)
	}

	metrics.EventsPublishedTotal.Inc()
	p.log.Debug("product event published", "topic", p.topic, "product_id", ev.ProductID)
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer: %w", err)
	}
	return nil
}

// NoopPublisher discards events. It is used when Kafka is not configured.
type NoopPublisher struct{}

// Publish does nothing.
func (NoopPublisher) Publish(context.Context, ProductUpdated) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
