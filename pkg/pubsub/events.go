package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

const (
	envelopeVersion       = 1
	defaultPublishTimeout = 5 * time.Second
)

// Envelope is the stable JSON body of every moderation message.
type Envelope struct {
	Version     int                       `json:"version"`
	EventID     string                    `json:"event_id"`
	EventType   enums.ModerationEventType `json:"event_type"`
	AggregateID int64                     `json:"aggregate_id"`
	OccurredAt  time.Time                 `json:"occurred_at"`
	Data        json.RawMessage           `json:"data"`
}

// EventPublisher emits moderation events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType enums.ModerationEventType, aggregateID int64, data any) error
}

// NoopPublisher drops every event. Used when Pub/Sub is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, enums.ModerationEventType, int64, any) error {
	return nil
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

// TopicPublisher publishes envelopes to a single topic and waits for the server ack.
type TopicPublisher struct {
	pub     messagePublisher
	timeout time.Duration
	now     func() time.Time
}

// NewTopicPublisher wraps a Pub/Sub publisher handle.
func NewTopicPublisher(p *pubsub.Publisher) (*TopicPublisher, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return newTopicPublisher(&gcpPublisher{Publisher: p}), nil
}

func newTopicPublisher(p messagePublisher) *TopicPublisher {
	return &TopicPublisher{pub: p, timeout: defaultPublishTimeout, now: time.Now}
}

func (t *TopicPublisher) Publish(ctx context.Context, eventType enums.ModerationEventType, aggregateID int64, data any) error {
	if !eventType.IsValid() {
		return fmt.Errorf("invalid event type %q", eventType)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", eventType, err)
	}
	envelope := Envelope{
		Version:     envelopeVersion,
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  t.now().UTC(),
		Data:        body,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", eventType, err)
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":     envelope.EventID,
			"event_type":   eventType.String(),
			"aggregate_id": strconv.FormatInt(aggregateID, 10),
			"occurred_at":  envelope.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result := t.pub.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("publisher returned nil result for %s", eventType)
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing %s: %w", eventType, err)
	}
	return nil
}

// Stop flushes pending messages and releases the publisher's goroutines.
func (t *TopicPublisher) Stop() {
	if s, ok := t.pub.(interface{ Stop() }); ok {
		s.Stop()
	}
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}

// emitTimeout caps how long a request waits on a moderation event.
var emitTimeout = 2 * time.Second

// Emit publishes an event and logs failures instead of returning them. Moderation
// events are notifications; a publish failure never fails the originating request.
// The publish outlives a cancelled request context but never emitTimeout.
func Emit(ctx context.Context, pub EventPublisher, logg *logger.Logger, eventType enums.ModerationEventType, aggregateID int64, data any) {
	if pub == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()

	if err := pub.Publish(publishCtx, eventType, aggregateID, data); err != nil && logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"event_type":   eventType.String(),
			"aggregate_id": aggregateID,
		})
		logg.Error(ctx, "failed to publish moderation event", err)
	}
}
