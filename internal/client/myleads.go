package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type MyLeadsAPI interface {
	MyLeads(ctx context.Context, opts ListOptions) (*LeadPage, error)
	FetchReplies(ctx context.Context, leadID string) ([]*entity.Reply, error)
}

type LeadThread struct {
	Lead     *entity.Lead
	Replies  []*entity.Reply
	Expanded bool
}

// MyLeadsView is the client's own leads with their reply threads. Threads are
// fetched only for expanded leads.
type MyLeadsView struct {
	api   MyLeadsAPI
	email string

	mu       sync.Mutex
	leads    []*entity.Lead
	replies  map[string][]*entity.Reply
	expanded map[string]bool
	lastErr  error

	// gen changes whenever a thread is expanded or collapsed, so a fetch that
	// started before the change is not applied after it.
	gen     map[string]uint64
	nextGen uint64
	started uint64
	applied uint64
}

func NewMyLeadsView(api MyLeadsAPI, email string) *MyLeadsView {
	return &MyLeadsView{
		api:      api,
		email:    email,
		replies:  make(map[string][]*entity.Reply),
		expanded: make(map[string]bool),
		gen:      make(map[string]uint64),
	}
}

func (v *MyLeadsView) bump(leadID string) uint64 {
	v.nextGen++
	v.gen[leadID] = v.nextGen
	return v.nextGen
}

// Expand opens a thread and loads its replies.
func (v *MyLeadsView) Expand(ctx context.Context, leadID string) {
	v.mu.Lock()
	v.expanded[leadID] = true
	gen := v.bump(leadID)
	v.mu.Unlock()

	replies := v.fetchThread(ctx, leadID)

	v.mu.Lock()
	if v.expanded[leadID] && v.gen[leadID] == gen {
		v.replies[leadID] = replies
	}
	v.mu.Unlock()
}

func (v *MyLeadsView) Collapse(leadID string) {
	v.mu.Lock()
	delete(v.expanded, leadID)
	delete(v.replies, leadID)
	v.bump(leadID)
	v.mu.Unlock()
}

// AppendReply adds a reply that was just sent to the end of its thread, if the
// thread is open and does not hold it yet.
func (v *MyLeadsView) AppendReply(reply *entity.Reply) {
	if reply == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.expanded[reply.LeadID] {
		return
	}
	for _, r := range v.replies[reply.LeadID] {
		if r.ID == reply.ID {
			return
		}
	}
	v.replies[reply.LeadID] = append(v.replies[reply.LeadID], reply)
}

// Refresh reloads the leads and every expanded thread. A refresh that finishes
// after a newer one is dropped, and a thread expanded or collapsed while the
// refresh was in flight keeps its newer state.
func (v *MyLeadsView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.started++
	seq := v.started
	v.mu.Unlock()

	page, err := v.api.MyLeads(ctx, ListOptions{Limit: DefaultPageSize, Email: v.email})
	if err != nil {
		v.mu.Lock()
		if seq > v.applied {
			v.lastErr = err
		}
		v.mu.Unlock()
		return err
	}
	leads := FilterByEmail(page.Leads, v.email)

	type snapshot struct {
		id  string
		gen uint64
	}
	v.mu.Lock()
	var open []snapshot
	for _, l := range leads {
		if v.expanded[l.ID] {
			open = append(open, snapshot{id: l.ID, gen: v.gen[l.ID]})
		}
	}
	v.mu.Unlock()

	threads := make([][]*entity.Reply, len(open))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, s := range open {
		g.Go(func() error {
			threads[i] = v.fetchThread(gctx, s.id)
			return nil
		})
	}
	_ = g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq < v.applied {
		return nil
	}
	v.applied = seq

	replies := make(map[string][]*entity.Reply, len(v.expanded))
	for id := range v.expanded {
		if r, ok := v.replies[id]; ok {
			replies[id] = r
		}
	}
	for i, s := range open {
		if v.expanded[s.id] && v.gen[s.id] == s.gen {
			replies[s.id] = threads[i]
		}
	}
	v.leads = leads
	v.replies = replies
	v.lastErr = nil
	return nil
}

// fetchThread treats a failed fetch as an empty thread.
func (v *MyLeadsView) fetchThread(ctx context.Context, leadID string) []*entity.Reply {
	replies, err := v.api.FetchReplies(ctx, leadID)
	if err != nil {
		return []*entity.Reply{}
	}
	return replies
}

func (v *MyLeadsView) Threads() []LeadThread {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]LeadThread, 0, len(v.leads))
	for _, l := range v.leads {
		out = append(out, LeadThread{Lead: l, Replies: v.replies[l.ID], Expanded: v.expanded[l.ID]})
	}
	return out
}

func (v *MyLeadsView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}
