package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// InlinePublisher runs the handler in-process when no broker is configured.
type InlinePublisher struct {
	Handler LeadEventHandler
	Timeout time.Duration
	wg      sync.WaitGroup
}

func NewInlinePublisher(handler LeadEventHandler) *InlinePublisher {
	return &InlinePublisher{Handler: handler, Timeout: 30 * time.Second}
}

// PublishLeadCreated returns at once; the handler runs detached from the
// request context so it outlives the request.
func (p *InlinePublisher) PublishLeadCreated(_ context.Context, event entity.LeadCreatedEvent) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
		defer cancel()
		if err := p.Handler.Execute(ctx, event); err != nil {
			slog.Error("lead enrichment failed", "lead_id", event.LeadID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every dispatched event has been handled.
func (p *InlinePublisher) Wait() {
	p.wg.Wait()
}
