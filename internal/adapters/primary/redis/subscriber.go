package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/arthurdotwork/board/internal/infrastructure/redis"
)

type LocalBroadcaster interface {
	Broadcast(ctx context.Context, event domain.Event) error
}

// Subscriber feeds relay envelopes from the shared redis channel into the
// local fan-out. Redis preserves publish order per connection, which is
// what gives each sender's strokes their order on every recipient.
type Subscriber struct {
	redisClient             *redis.Client
	localBroadcasterService LocalBroadcaster
}

func NewSubscriber(redisClient *redis.Client, localBroadcasterService LocalBroadcaster) *Subscriber {
	return &Subscriber{
		redisClient:             redisClient,
		localBroadcasterService: localBroadcasterService,
	}
}

func (s *Subscriber) Subscribe(ctx context.Context, channel string) error {
	subscriber := s.redisClient.Subscribe(ctx, channel)

	if err := subscriber(func(msg redis.Message) error {
		var event domain.Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			// A malformed envelope must not take down the relay loop.
			slog.WarnContext(ctx, "dropping malformed relay envelope", "error", err)
			return nil
		}

		if err := s.localBroadcasterService.Broadcast(ctx, event); err != nil {
			return fmt.Errorf("localBroadcasterService.Broadcast: %w", err)
		}

		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "error subscribing to redis", "error", err)
		return fmt.Errorf("subscriber: %w", err)
	}

	return nil
}
