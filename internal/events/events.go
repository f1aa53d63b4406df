package events

import (
	"context"
	"time"

	"escapedia/pkg/kafka"
	"escapedia/pkg/logger"
	"escapedia/pkg/middleware"
)

const (
	TypeBookingRequested     = "booking.requested"
	TypeBookingCancelled     = "booking.cancelled"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeReviewPublished      = "review.published"
	TypeLocalCreated         = "local.created"
	TypeRoomSaved            = "room.saved"

	source        = "escapedia-web"
	schemaVersion = "1"
)

// Activity is one visitor action worth telling the rest of the platform about.
type Activity struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher records activity. Implementations never fail the calling page.
type Publisher interface {
	Publish(ctx context.Context, a Activity)
}

type Nop struct{}

func (Nop) Publish(context.Context, Activity) {}

type publishFunc func(ctx context.Context, msg kafka.Message) error

// KafkaPublisher writes activity to a topic keyed by entity id.
type KafkaPublisher struct {
	publish publishFunc
	log     *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{publish: producer.Publish, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a Activity) {
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now()
	}

	msg, err := kafka.NewMessage().
		WithKey(a.EntityID).
		WithValue(a).
		WithEventType(a.Type).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		WithTimestamp(a.OccurredAt).
		Build()
	if err != nil {
		p.log.Error("Failed to build activity event", "type", a.Type, "error", err)
		return
	}

	// the page answer must not depend on the broker
	if err := p.publish(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Warn("Activity event dropped", "type", a.Type, "entity_id", a.EntityID, "error", err)
	}
}
