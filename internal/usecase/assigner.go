package usecase

import (
	"context"
	"sync/atomic"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// RoundRobinAssigner hands leads to the agent roster in turn.
type RoundRobinAssigner struct {
	agents []entity.Agent
	next   atomic.Uint64
}

func NewRoundRobinAssigner(directory *entity.AgentDirectory) *RoundRobinAssigner {
	return &RoundRobinAssigner{agents: directory.Agents()}
}

func (a *RoundRobinAssigner) Assign(_ context.Context, _ *entity.Lead) (entity.Agent, bool) {
	if len(a.agents) == 0 {
		return entity.Agent{}, false
	}
	n := a.next.Add(1) - 1
	return a.agents[n%uint64(len(a.agents))], true
}
