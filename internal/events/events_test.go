package events

import (
	"context"
	"errors"
	"testing"

	"escapedia/pkg/kafka"
	"escapedia/pkg/logger"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	var got kafka.Message
	p := &KafkaPublisher{
		publish: func(ctx context.Context, msg kafka.Message) error {
			got = msg
			return nil
		},
		log: logger.Discard(),
	}

	p.Publish(context.Background(), Activity{Type: TypeBookingRequested, EntityID: "b1", ActorID: "u1", Status: "pending"})

	if got.Key != "b1" {
		t.Errorf("Key = %q, want b1", got.Key)
	}
	if got.GetEventType() != TypeBookingRequested {
		t.Errorf("event type = %q", got.GetEventType())
	}
	var a Activity
	if err := got.DecodeValue(&a); err != nil {
		t.Fatal(err)
	}
	if a.ActorID != "u1" || a.OccurredAt.IsZero() {
		t.Errorf("decoded = %+v", a)
	}
}

func TestKafkaPublisher_FailureIsSwallowed(t *testing.T) {
	calls := 0
	p := &KafkaPublisher{
		publish: func(ctx context.Context, msg kafka.Message) error {
			calls++
			return errors.New("broker down")
		},
		log: logger.Discard(),
	}

	p.Publish(context.Background(), Activity{Type: TypeReviewPublished, EntityID: "r1"})
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestKafkaPublisher_EmptyEntityNotSent(t *testing.T) {
	p := &KafkaPublisher{
		publish: func(ctx context.Context, msg kafka.Message) error {
			if msg.Key == "" {
				return kafka.ErrEmptyKey
			}
			return nil
		},
		log: logger.Discard(),
	}
	// must not panic
	p.Publish(context.Background(), Activity{Type: TypeLocalCreated})
}
