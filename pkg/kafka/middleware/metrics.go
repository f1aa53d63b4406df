package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"escapedia/pkg/kafka"
)

// Metrics counts producer outcomes.
type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // nanoseconds
}

func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.MessagesPublished, 0)
	atomic.StoreInt64(&m.MessagesPublishedFailed, 0)
	atomic.StoreInt64(&m.PublishDurationTotal, 0)
}

// Snapshot returns a copy safe to serialise.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"published":         atomic.LoadInt64(&m.MessagesPublished),
		"failed":            atomic.LoadInt64(&m.MessagesPublishedFailed),
		"duration_total_ns": atomic.LoadInt64(&m.PublishDurationTotal),
	}
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		atomic.AddInt64(&m.PublishDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&m.MessagesPublishedFailed, 1)
		} else {
			atomic.AddInt64(&m.MessagesPublished, 1)
		}
		return err
	}
}
