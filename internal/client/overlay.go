package client

import "sync"

// Overlay tracks leads with a mutation in flight. It blocks a second mutation
// of the same lead and nothing else.
type Overlay struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewOverlay() *Overlay {
	return &Overlay{pending: make(map[string]struct{})}
}

// Begin marks the lead as pending. It returns false if it already was.
func (o *Overlay) Begin(leadID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.pending[leadID]; ok {
		return false
	}
	o.pending[leadID] = struct{}{}
	return true
}

func (o *Overlay) End(leadID string) {
	o.mu.Lock()
	delete(o.pending, leadID)
	o.mu.Unlock()
}

func (o *Overlay) Pending(leadID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pending[leadID]
	return ok
}
