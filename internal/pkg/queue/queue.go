package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Notification kinds consumed by the worker.
const (
	KindTierChange     = "tier_change"
	KindCancellation   = "cancellation"
	KindRefund         = "refund"
	KindPaymentReceipt = "payment_receipt"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// NotificationJob is one fire-and-forget email request. Payload keys depend on
// the kind (tier names, amounts, invoice number and so on).
type NotificationJob struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Name      string            `json:"name"`
	Payload   map[string]string `json:"payload"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues a notification job.
func (q *Queue) Push(ctx context.Context, job *NotificationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks up to timeout for the next job; returns nil on timeout.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*NotificationJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var job NotificationJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// Length returns the queue depth.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
