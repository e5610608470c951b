package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// LeadAPI is the part of Client the agent dashboard needs.
type LeadAPI interface {
	ListLeads(ctx context.Context, opts ListOptions) (*LeadPage, error)
	UpdateStatus(ctx context.Context, leadID, status string) (*entity.Lead, error)
}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is a dismissible message about the outcome of a user action.
type Notice struct {
	Severity Severity
	Message  string
}

type DashboardView struct {
	Leads       []*entity.Lead
	Total       int
	Stats       Stats
	Err         error
	RefreshedAt time.Time
}

// Dashboard holds the agent view. Refreshes replace the list in full, and a
// refresh that started before the last applied one is discarded.
type Dashboard struct {
	api     LeadAPI
	overlay *Overlay
	now     func() time.Time

	mu           sync.Mutex
	statusFilter string
	search       string
	leads        []*entity.Lead
	total        int
	lastErr      error
	refreshedAt  time.Time
	started      uint64
	applied      uint64
}

func NewDashboard(api LeadAPI) *Dashboard {
	return &Dashboard{api: api, overlay: NewOverlay(), now: time.Now}
}

// SetStatusFilter changes the server-side filter. Callers refresh afterwards.
func (d *Dashboard) SetStatusFilter(status string) {
	d.mu.Lock()
	d.statusFilter = status
	d.mu.Unlock()
}

func (d *Dashboard) SetSearch(query string) {
	d.mu.Lock()
	d.search = query
	d.mu.Unlock()
}

// Refresh fetches the current page. On failure the previous leads stay visible
// next to the error.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.started++
	seq := d.started
	filter := d.statusFilter
	d.mu.Unlock()

	page, err := d.api.ListLeads(ctx, ListOptions{Status: filter, Limit: DefaultPageSize})

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq < d.applied {
		return err
	}
	d.applied = seq
	d.refreshedAt = d.now()
	if err != nil {
		d.lastErr = err
		return err
	}
	d.lastErr = nil
	d.leads = page.Leads
	d.total = page.Total
	return nil
}

// ChangeStatus updates one lead and refreshes the list on success. While the
// call is in flight the lead is marked as updating.
func (d *Dashboard) ChangeStatus(ctx context.Context, leadID, status string) (Notice, error) {
	if !d.overlay.Begin(leadID) {
		return Notice{Severity: SeverityError, Message: ErrMutationPending.Error()}, ErrMutationPending
	}
	defer d.overlay.End(leadID)

	if _, err := d.api.UpdateStatus(ctx, leadID, status); err != nil {
		return Notice{Severity: SeverityError, Message: err.Error()}, err
	}

	notice := Notice{Severity: SeveritySuccess, Message: fmt.Sprintf("Status updated to %q", status)}
	_ = d.Refresh(ctx)
	return notice, nil
}

func (d *Dashboard) Updating(leadID string) bool {
	return d.overlay.Pending(leadID)
}

// View returns the searched leads with stats over the whole fetched page.
func (d *Dashboard) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardView{
		Leads:       Search(d.leads, d.search),
		Total:       d.total,
		Stats:       ComputeStats(d.leads, d.total),
		Err:         d.lastErr,
		RefreshedAt: d.refreshedAt,
	}
}
