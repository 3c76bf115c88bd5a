package service

import (
	"context"
	"log"
	"time"

	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
)

// Notifier enqueues notification jobs for the email worker. Delivery is
// best-effort by contract: enqueue failures are logged and never propagated,
// so a dead redis cannot fail a billing operation.
type Notifier struct {
	queue *queue.Queue
}

func NewNotifier(q *queue.Queue) *Notifier {
	return &Notifier{queue: q}
}

// Notify pushes one job, swallowing errors. Safe on a nil receiver or a nil
// queue (tests, worker-less deployments).
func (n *Notifier) Notify(job *queue.NotificationJob) {
	if n == nil || n.queue == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.queue.Push(ctx, job); err != nil {
		log.Printf("Failed to enqueue %s notification for %s: %v", job.Kind, job.Recipient, err)
	}
}
