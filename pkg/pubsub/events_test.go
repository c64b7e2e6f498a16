package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

type stubResult struct {
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	return "server-id", r.err
}

type stubPublisher struct {
	messages []*pubsub.Message
	err      error
	nilRes   bool
}

func (s *stubPublisher) Publish(_ context.Context, msg *pubsub.Message) publishResult {
	s.messages = append(s.messages, msg)
	if s.nilRes {
		return nil
	}
	return stubResult{err: s.err}
}

func TestTopicPublisherWrapsEnvelope(t *testing.T) {
	stub := &stubPublisher{}
	pub := newTopicPublisher(stub)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	err := pub.Publish(context.Background(), enums.EventSubmissionCreated, 7, map[string]any{"name": "Burnside"})
	require.NoError(t, err)
	require.Len(t, stub.messages, 1)

	msg := stub.messages[0]
	assert.Equal(t, "submission_created", msg.Attributes["event_type"])
	assert.Equal(t, "7", msg.Attributes["aggregate_id"])
	assert.NotEmpty(t, msg.Attributes["event_id"])

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.Equal(t, enums.EventSubmissionCreated, envelope.EventType)
	assert.Equal(t, int64(7), envelope.AggregateID)
	assert.True(t, fixed.Equal(envelope.OccurredAt))
	assert.Equal(t, msg.Attributes["event_id"], envelope.EventID)
	assert.JSONEq(t, `{"name":"Burnside"}`, string(envelope.Data))
}

func TestTopicPublisherSurfacesFailures(t *testing.T) {
	failing := newTopicPublisher(&stubPublisher{err: errors.New("unavailable")})
	require.Error(t, failing.Publish(context.Background(), enums.EventVenueCreated, 1, nil))

	nilResult := newTopicPublisher(&stubPublisher{nilRes: true})
	require.Error(t, nilResult.Publish(context.Background(), enums.EventVenueCreated, 1, nil))

	stub := &stubPublisher{}
	unknown := newTopicPublisher(stub)
	require.Error(t, unknown.Publish(context.Background(), enums.ModerationEventType("order_created"), 1, nil))
	assert.Empty(t, stub.messages)
}

func TestNewTopicPublisherRequiresHandle(t *testing.T) {
	_, err := NewTopicPublisher(nil)
	require.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p EventPublisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), enums.EventVenueCreated, 1, nil))
}

func TestTopicResourceName(t *testing.T) {
	assert.Equal(t, "projects/p/topics/moderation", topicResourceName("p", "moderation"))
	assert.Equal(t, "projects/x/topics/y", topicResourceName("p", "projects/x/topics/y"))
	assert.Equal(t, "", topicResourceName("", "moderation"))
	assert.Equal(t, "", topicResourceName("p", "  "))
}

func TestEmitSwallowsFailures(t *testing.T) {
	stub := &stubPublisher{err: errors.New("unavailable")}
	pub := newTopicPublisher(stub)

	Emit(context.Background(), pub, logger.Nop(), enums.EventVenueCreated, 3, map[string]any{"id": 3})
	Emit(context.Background(), nil, logger.Nop(), enums.EventVenueCreated, 3, nil)

	assert.Len(t, stub.messages, 1)
}

type blockingPublisher struct {
	parentErr error
	err       error
}

func (b *blockingPublisher) Publish(ctx context.Context, _ enums.ModerationEventType, _ int64, _ any) error {
	b.parentErr = ctx.Err()
	<-ctx.Done()
	b.err = ctx.Err()
	return b.err
}

func TestEmitBoundsSlowPublish(t *testing.T) {
	prev := emitTimeout
	emitTimeout = 20 * time.Millisecond
	t.Cleanup(func() { emitTimeout = prev })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &blockingPublisher{}
	start := time.Now()
	Emit(ctx, pub, logger.Nop(), enums.EventSubmissionCreated, 1, nil)

	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, pub.parentErr)
	assert.ErrorIs(t, pub.err, context.DeadlineExceeded)
}
