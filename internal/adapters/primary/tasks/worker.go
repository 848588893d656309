package tasks

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/arthurdotwork/board/internal/adapters/secondary/snapshot"
	"github.com/arthurdotwork/board/internal/infrastructure/pubsub"
)

type SnapshotPersister interface {
	Persist(ctx context.Context, room string, data string) error
}

// Worker consumes deferred snapshot writes from the task queue. A failed
// write is logged and dropped: durability is best-effort and the next
// completed stroke enqueues a fresh full raster anyway.
type Worker struct {
	subscriber *pubsub.Subscriber
	snapshots  SnapshotPersister
}

func NewWorker(subscriber *pubsub.Subscriber, snapshots SnapshotPersister) *Worker {
	return &Worker{
		subscriber: subscriber,
		snapshots:  snapshots,
	}
}

func (w *Worker) Register(ctx context.Context) {
	w.subscriber.Subscribe(ctx, snapshot.TaskPersist, func(ctx context.Context, t pubsub.Task) error {
		var payload snapshot.PersistPayload
		if err := json.Unmarshal(t.Payload, &payload); err != nil {
			slog.WarnContext(ctx, "dropping malformed snapshot task", "error", err)
			return nil
		}

		if err := w.snapshots.Persist(ctx, payload.Room, payload.Data); err != nil {
			slog.ErrorContext(ctx, "snapshot persistence failed", "room", payload.Room, "error", err)
			return err
		}

		return nil
	})
}

func (w *Worker) Start() error {
	return w.subscriber.Start()
}

func (w *Worker) Stop() {
	w.subscriber.Stop()
}
