package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

// EnrichmentSweeper republishes lead.created for leads that are still untagged
// after the grace period, which covers events lost between insert and publish.
type EnrichmentSweeper struct {
	repo         entity.LeadRepositoryInterface
	publisher    usecase.EventPublisher
	gracePeriod  time.Duration
	tickInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewEnrichmentSweeper(repo entity.LeadRepositoryInterface, publisher usecase.EventPublisher, interval time.Duration) *EnrichmentSweeper {
	return &EnrichmentSweeper{
		repo:         repo,
		publisher:    publisher,
		gracePeriod:  5 * time.Minute,
		tickInterval: interval,
		batchSize:    50,
		now:          time.Now,
	}
}

func (w *EnrichmentSweeper) Start(ctx context.Context) {
	slog.Info("enrichment sweeper started", "interval", w.tickInterval, "grace_period", w.gracePeriod)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("enrichment sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Go runs Start in the background. The returned stop cancels it and blocks
// until the sweep in flight, if any, has finished publishing.
func (w *EnrichmentSweeper) Go(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Sweep runs one pass and returns how many events were republished.
func (w *EnrichmentSweeper) Sweep(ctx context.Context) int {
	cutoff := w.now().UTC().Add(-w.gracePeriod)

	leads, err := w.repo.ListUnenriched(ctx, cutoff, w.batchSize)
	if err != nil {
		slog.Error("failed to list unenriched leads", "error", err)
		return 0
	}

	published := 0
	for _, lead := range leads {
		event := entity.LeadCreatedEvent{
			LeadID:      lead.ID,
			Language:    lead.Language,
			Origin:      entity.OriginSweeper,
			PublishedAt: w.now().UTC(),
		}
		if err := w.publisher.PublishLeadCreated(ctx, event); err != nil {
			slog.Warn("failed to republish lead event", "lead_id", lead.ID, "error", err)
			continue
		}
		published++
	}

	if published > 0 {
		slog.Info("unenriched leads republished", "count", published)
	}
	return published
}
