package snapshot

import (
	"context"
	"fmt"

	"github.com/arthurdotwork/board/internal/domain"
	"github.com/arthurdotwork/board/internal/infrastructure/pubsub"
	"github.com/arthurdotwork/board/internal/infrastructure/redis"
)

// TaskPersist is the queue task type for deferred snapshot writes.
const TaskPersist = "snapshot:persist"

// PersistPayload is the body of a TaskPersist task.
type PersistPayload struct {
	Room string `json:"roomCode"`
	Data string `json:"imageData"`
}

const (
	dataKeyPrefix    = "board:snapshot:"
	versionKeyPrefix = "board:snapshot:version:"
)

// Store keeps one full-canvas raster per room in redis. Save defers the
// write to the task queue so drawing never waits on storage; the contract
// is last-write-wins by arrival, with no retry of failed writes.
type Store struct {
	redisClient *redis.Client
	publisher   *pubsub.Publisher
}

func NewStore(redisClient *redis.Client, publisher *pubsub.Publisher) *Store {
	return &Store{
		redisClient: redisClient,
		publisher:   publisher,
	}
}

func (s *Store) Save(ctx context.Context, room string, data string) error {
	if err := s.publisher.Publish(ctx, TaskPersist, PersistPayload{Room: room, Data: data}); err != nil {
		return fmt.Errorf("publisher.Publish: %w", err)
	}

	return nil
}

// Persist performs the actual write. The tasks worker calls it; Save
// never does.
func (s *Store) Persist(ctx context.Context, room string, data string) error {
	if err := s.redisClient.Set(ctx, dataKeyPrefix+room, data, 0).Err(); err != nil {
		return fmt.Errorf("redisClient.Set: %w", err)
	}

	if err := s.redisClient.Incr(ctx, versionKeyPrefix+room).Err(); err != nil {
		return fmt.Errorf("redisClient.Incr: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, room string) (domain.Snapshot, error) {
	data, err := s.redisClient.Get(ctx, dataKeyPrefix+room).Result()
	if err != nil {
		if redis.IsNil(err) {
			return domain.Snapshot{Room: room}, nil
		}

		return domain.Snapshot{}, fmt.Errorf("redisClient.Get: %w", err)
	}

	version, err := s.redisClient.Get(ctx, versionKeyPrefix+room).Uint64()
	if err != nil && !redis.IsNil(err) {
		return domain.Snapshot{}, fmt.Errorf("redisClient.Get: %w", err)
	}

	return domain.Snapshot{Room: room, Data: data, Version: version}, nil
}

func (s *Store) Clear(ctx context.Context, room string) error {
	if err := s.redisClient.Set(ctx, dataKeyPrefix+room, "", 0).Err(); err != nil {
		return fmt.Errorf("redisClient.Set: %w", err)
	}

	if err := s.redisClient.Incr(ctx, versionKeyPrefix+room).Err(); err != nil {
		return fmt.Errorf("redisClient.Incr: %w", err)
	}

	return nil
}
