package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/haeseoky/member-service/pkg/util"
)

// Publisher is the outbound event port. Implementations provide
// at-least-once delivery; consumers are expected to dedup by event id.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// streamPublisher writes envelopes to a Redis Stream.
type streamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher returns a Publisher backed by a Redis Stream.
func NewStreamPublisher(client *redis.Client, stream string) Publisher {
	return &streamPublisher{client: client, stream: stream}
}

// Publish appends the serialized envelope to the stream, keyed by member id
// so that per-member ordering survives partition-style consumption.
func (p *streamPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"key":   fmt.Sprintf("member-%d", event.MemberID),
			"event": payload,
		},
	}).Err(); err != nil {
		return apperrors.NewPublishError(err)
	}
	return nil
}
