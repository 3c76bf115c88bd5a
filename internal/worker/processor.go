package worker

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sahaaya/sahaaya_server/internal/pkg/email"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
)

// Processor consumes notification jobs and sends the matching email. Every
// job is best-effort: a failed send is logged and dropped, never retried into
// the primary flow.
type Processor struct {
	emailService *email.Service
}

func NewProcessor(emailService *email.Service) *Processor {
	return &Processor{emailService: emailService}
}

// Process dispatches one job by kind.
func (p *Processor) Process(job *queue.NotificationJob) error {
	switch job.Kind {
	case queue.KindTierChange:
		return p.emailService.SendTierChange(
			job.Recipient,
			job.Name,
			job.Payload["old_tier"],
			job.Payload["new_tier"],
			job.Payload["reason"],
		)
	case queue.KindCancellation:
		return p.emailService.SendCancellation(
			job.Recipient,
			job.Name,
			job.Payload["tier_name"],
			job.Payload["reason"],
			job.Payload["access_until"],
		)
	case queue.KindRefund:
		amount, _ := strconv.ParseFloat(job.Payload["amount"], 64)
		return p.emailService.SendRefund(
			job.Recipient,
			job.Name,
			job.Payload["invoice_number"],
			amount,
			job.Payload["reason"],
		)
	case queue.KindPaymentReceipt:
		total, _ := strconv.ParseFloat(job.Payload["total"], 64)
		return p.emailService.SendPaymentReceipt(
			job.Recipient,
			job.Name,
			job.Payload["plan_name"],
			job.Payload["invoice_number"],
			total,
			job.Payload["invoice_url"],
		)
	default:
		return fmt.Errorf("unknown notification kind: %s", job.Kind)
	}
}

// Run consumes the queue until the context is cancelled.
func (p *Processor) Run(ctx context.Context, q *queue.Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := q.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Queue pop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(job); err != nil {
			log.Printf("Notification %s to %s failed: %v", job.Kind, job.Recipient, err)
		}
	}
}
