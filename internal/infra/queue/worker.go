package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// LeadEventHandler processes one lead.created event.
type LeadEventHandler interface {
	Execute(ctx context.Context, event entity.LeadCreatedEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Handler LeadEventHandler
	Timeout time.Duration
}

func NewWorker(ch *amqp.Channel, handler LeadEventHandler) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
		Timeout: 30 * time.Second,
	}
}

// Start consumes the queue until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(4, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("enrichment worker started", "queue", queueName)
	for {
		select {
		case <-ctx.Done():
			slog.Info("enrichment worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle acks a processed delivery. Malformed events and events for missing
// leads go straight to the DLQ; other failures are retried once.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var event entity.LeadCreatedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.LeadID == "" {
		slog.Error("invalid lead event", "error", err)
		d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	if err := w.Handler.Execute(ctx, event); err != nil {
		requeue := !d.Redelivered && !errors.Is(err, entity.ErrLeadNotFound)
		slog.Error("lead enrichment failed", "lead_id", event.LeadID, "requeue", requeue, "error", err)
		d.Nack(false, requeue)
		return
	}
	d.Ack(false)
}
