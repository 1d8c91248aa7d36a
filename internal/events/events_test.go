package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:           "0b3c1f0e-2f1c-4bb5-9d55-6f0f1e7b8a01",
		URL:          "https://www.amazon.com/dp/B08KTZ8249",
		Title:        "Kindle Paperwhite",
		Currency:     "$",
		CurrentPrice: 85,
		LowestPrice:  85,
		HighestPrice: 100,
		AveragePrice: 92.5,
	}
}

func TestNewProductUpdated(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	ev := NewProductUpdated(testProduct(), domain.NotifyLowestPrice, "cycle-1", at)

	assert.Equal(t, "0b3c1f0e-2f1c-4bb5-9d55-6f0f1e7b8a01", ev.ProductID)
	assert.Equal(t, 85.0, ev.Price)
	assert.Equal(t, 92.5, ev.AveragePrice)
	assert.Equal(t, domain.NotifyLowestPrice, ev.Verdict)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	assert.True(t, at.Equal(ev.OccurredAt))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewKafkaPublisher(nil, "trackmyprices.product-updates",
		WithWriter(w),
		WithLogger(quietLogger()),
	)

	ev := NewProductUpdated(testProduct(), domain.NotifyNone, "cycle-1", time.Now())
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "trackmyprices.product-updates", msg.Topic)
	assert.Equal(t, []byte(ev.ProductID), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "none", decoded["verdict"])
	assert.Equal(t, "cycle-1", decoded["cycle_id"])
	assert.Equal(t, false, decoded["is_out_of_stock"])
	assert.Contains(t, decoded, "occurred_at")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{err: errors.New("leader not available")}
	p := NewKafkaPublisher(nil, "topic", WithWriter(w), WithLogger(quietLogger()))

	err := p.Publish(context.Background(), NewProductUpdated(testProduct(), domain.NotifyNone, "", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publishing product event for 0b3c1f0e")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewKafkaPublisher_DefaultWriter(t *testing.T) {
	t.Parallel()

	p := NewKafkaPublisher([]string{"localhost:9092"}, "topic")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "localhost:9092", w.Addr.String())
	require.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	t.Parallel()

	var p Publisher = NoopPublisher{}
	require.NoError(t, p.Publish(context.Background(), ProductUpdated{}))
	require.NoError(t, p.Close())
}

// compile-time interface check.
var _ Publisher = (*KafkaPublisher)(nil)
