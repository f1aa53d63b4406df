package kafka

import (
	"context"
	"errors"
	"testing"

	kafka_config "escapedia/pkg/kafka/config"
	"escapedia/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type mockWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func mustBuild(t *testing.T, mb *MessageBuilder) Message {
	t.Helper()
	msg, err := mb.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestMessageBuilder(t *testing.T) {
	msg := mustBuild(t, NewMessage().
		WithKey("room-1").
		WithValue(map[string]string{"status": "pending"}).
		WithEventType("booking.requested").
		WithCorrelationID("req-1").
		WithSource("escapedia-web"))

	if msg.GetEventID() == "" {
		t.Error("event id should be generated")
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("timestamp header should be set")
	}
	var body map[string]string
	if err := msg.DecodeValue(&body); err != nil || body["status"] != "pending" {
		t.Errorf("DecodeValue() = %v, %v", body, err)
	}

	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if err == nil {
		t.Error("unencodable value should fail Build")
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &mockWriter{}
	p := newProducer(w, "activity")

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	msg := mustBuild(t, NewMessage().WithKey("b1").WithValue("x").WithEventType("booking.cancelled"))
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.written) != 1 || string(w.written[0].Key) != "b1" {
		t.Fatalf("written = %+v", w.written)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestProducer_Rejects(t *testing.T) {
	w := &mockWriter{}
	p := newProducer(w, "activity")
	ctx := context.Background()

	if err := p.Publish(ctx, Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("err = %v, want ErrEmptyKey", err)
	}
	if err := p.Publish(ctx, Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("err = %v, want ErrEmptyValue", err)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close() = %v, closed = %v", err, w.closed)
	}
	if err := p.Publish(ctx, Message{Key: "k", Value: []byte("x")}); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("err = %v, want ErrProducerClosed", err)
	}
}

func TestNewProducer_Validation(t *testing.T) {
	log := logger.Discard()
	if _, err := NewProducer(&kafka_config.Config{}, "t", log); !errors.Is(err, ErrNoBrokers) {
		t.Errorf("err = %v, want ErrNoBrokers", err)
	}
	if _, err := NewProducer(&kafka_config.Config{Brokers: []string{"k:9092"}}, "", log); !errors.Is(err, ErrNoTopic) {
		t.Errorf("err = %v, want ErrNoTopic", err)
	}
	p, err := NewProducer(&kafka_config.Config{Brokers: []string{"k:9092"}, ProducerMaxAttempts: 1}, "t", log)
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	_ = p.Close()
}
