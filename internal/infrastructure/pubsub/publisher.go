package pubsub

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

type Publisher struct {
	client *asynq.Client
}

func NewPublisher(redisAddr string) *Publisher {
	return &Publisher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// Publish enqueues a task. Tasks are never retried: a failed snapshot
// write is superseded by the next completed stroke anyway.
func (p *Publisher) Publish(ctx context.Context, t string, message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	task := asynq.NewTask(t, payload)
	if _, err := p.client.EnqueueContext(ctx, task, asynq.MaxRetry(0)); err != nil {
		return err
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
