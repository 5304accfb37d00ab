package provision

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Queue transports account-created events from the HTTP path to the
// provisioning worker. Dequeue returns the raw payload alongside the event;
// the consumer passes it back to Ack once the event has been handled, which
// is what gives redeliverable implementations their at-least-once guarantee.
type Queue interface {
	Enqueue(ctx context.Context, ev Event) error

	// Dequeue blocks up to timeout. A nil event with a nil error means the
	// timeout elapsed with nothing pending.
	Dequeue(ctx context.Context, timeout time.Duration) (*Event, string, error)

	Ack(ctx context.Context, payload string) error
}

// MemoryQueue is a process-local queue for tests and single-node setups.
// Events live in a channel, so delivery is at-most-once across restarts;
// the Redis queue is the durable option.
type MemoryQueue struct {
	ch chan string
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan string, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case q.ch <- string(data):
		return nil
	default:
		return errors.New("provision: queue full")
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Event, string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload := <-q.ch:
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, "", err
		}
		return &ev, payload, nil
	case <-timer.C:
		return nil, "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func (q *MemoryQueue) Ack(ctx context.Context, payload string) error {
	return nil
}
