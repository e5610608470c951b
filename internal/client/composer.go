package client

import (
	"context"
	"sync"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type ReplyAPI interface {
	SendReply(ctx context.Context, leadID, message string, agent entity.Agent) (*entity.Reply, error)
}

// Composer holds the reply draft for one lead. The draft survives any failed
// send so the agent can retry.
type Composer struct {
	api    ReplyAPI
	leadID string
	agent  entity.Agent

	mu      sync.Mutex
	draft   string
	sending bool
	onSent  func(*entity.Reply)
}

func NewComposer(api ReplyAPI, leadID string, agent entity.Agent) *Composer {
	return &Composer{api: api, leadID: leadID, agent: agent}
}

// OnSent registers fn to receive every reply the server stored, typically a
// thread view's AppendReply.
func (c *Composer) OnSent(fn func(*entity.Reply)) {
	c.mu.Lock()
	c.onSent = fn
	c.mu.Unlock()
}

func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Send posts the draft. The draft is cleared only when the reply was stored
// and the agent did not edit it in the meantime.
func (c *Composer) Send(ctx context.Context) (*entity.Reply, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrMutationPending
	}
	c.sending = true
	draft := c.draft
	c.mu.Unlock()

	reply, err := c.api.SendReply(ctx, c.leadID, draft, c.agent)

	c.mu.Lock()
	c.sending = false
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.draft == draft {
		c.draft = ""
	}
	onSent := c.onSent
	c.mu.Unlock()

	if onSent != nil {
		onSent(reply)
	}
	return reply, nil
}
