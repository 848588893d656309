package broadcaster

import (
	"context"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/arthurdotwork/board/internal/infrastructure/redis"
)

// Broadcaster publishes relay envelopes to the shared redis channel so
// every node, this one included, fans them out to its local room members.
type Broadcaster struct {
	redisClient *redis.Client
}

func NewBroadcaster(redisClient *redis.Client) *Broadcaster {
	return &Broadcaster{redisClient: redisClient}
}

func (b *Broadcaster) Broadcast(ctx context.Context, channel string, event domain.Event) error {
	return b.redisClient.Publish(ctx, channel, event)
}
