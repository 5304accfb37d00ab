package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	pendingKey    = "provision:pending"
	processingKey = "provision:processing"
)

// RedisQueue is a Redis-list backed queue with at-least-once delivery.
// Dequeue atomically moves the payload onto a processing list; Ack removes
// it once handled. Payloads stranded on the processing list by a crash are
// put back by Recover at startup.
type RedisQueue struct {
	client *goredis.Client
}

func NewRedisQueue(client *goredis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("provision: encode event: %w", err)
	}

	return q.client.RPush(ctx, pendingKey, data).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Event, string, error) {
	payload, err := q.client.BLMove(ctx, pendingKey, processingKey, "LEFT", "RIGHT", timeout).Result()
	if err == goredis.Nil {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		// drop the poison payload so it does not wedge the queue
		_ = q.client.LRem(ctx, processingKey, 1, payload).Err()
		return nil, "", fmt.Errorf("provision: decode event: %w", err)
	}

	return &ev, payload, nil
}

func (q *RedisQueue) Ack(ctx context.Context, payload string) error {
	return q.client.LRem(ctx, processingKey, 1, payload).Err()
}

// Recover moves every payload left on the processing list back to pending.
// Call once at startup, before the worker runs.
func (q *RedisQueue) Recover(ctx context.Context) error {
	for {
		_, err := q.client.LMove(ctx, processingKey, pendingKey, "RIGHT", "LEFT").Result()
		if err == goredis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
