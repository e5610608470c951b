package client

import (
	"context"
	"time"
)

// Refresh intervals of the views.
const (
	DashboardInterval = 15 * time.Second
	SubmitInterval    = 20 * time.Second
	MyLeadsInterval   = 30 * time.Second
)

// Poller runs a refresh once immediately and then on every tick until the
// context is cancelled. Each refresh replaces the view state in full.
type Poller struct {
	interval time.Duration
	refresh  func(ctx context.Context)
}

func NewPoller(interval time.Duration, refresh func(ctx context.Context)) *Poller {
	return &Poller{interval: interval, refresh: refresh}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}
