package provision

import (
	"context"
	"time"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
)

const dequeueTimeout = 5 * time.Second

// Worker drains the queue and hands each event to the Provisioner. It runs
// in its own execution context, decoupled from the HTTP request lifecycle.
// Concurrent invocations only ever touch rows keyed by their own principal
// id, so a single worker per process needs no cross-principal locking.
type Worker struct {
	queue       Queue
	provisioner *Provisioner
	done        chan struct{}
}

func NewWorker(q Queue, p *Provisioner) *Worker {
	return &Worker{
		queue:       q,
		provisioner: p,
		done:        make(chan struct{}),
	}
}

// Run consumes events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		if ctx.Err() != nil {
			return
		}

		ev, payload, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("provisioning dequeue failed", map[string]any{
				"error": err.Error(),
			})
			time.Sleep(time.Second)
			continue
		}

		if ev == nil {
			continue
		}

		// Provision never reports failure upward; see Provisioner.Provision
		w.provisioner.Provision(ctx, *ev)

		if err := w.queue.Ack(ctx, payload); err != nil {
			logger.Error("provisioning ack failed", map[string]any{
				"user_id": ev.UserID,
				"error":   err.Error(),
			})
		}
	}
}

// Wait blocks until Run has returned.
func (w *Worker) Wait() {
	<-w.done
}
