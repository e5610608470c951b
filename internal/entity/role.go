package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
)

// Agent is an identity on the agent allow-list.
type Agent struct {
	Email string `yaml:"email" json:"email"`
	Name  string `yaml:"name" json:"name"`
}

// Identity is what the token verifier proves about a caller.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Session is an identity with its resolved role.
type Session struct {
	Identity
	Role Role
}

func (s *Session) IsAgent() bool {
	return s != nil && s.Role == RoleAgent
}

// NormalizeEmail case-folds an email for comparisons. It is not a display form.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func EmailEqual(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// AgentDirectory is the static agent allow-list. It is built once at process
// start and never mutated, so it is safe for concurrent reads.
type AgentDirectory struct {
	agents []Agent
	index  map[string]Agent
}

func NewAgentDirectory(agents []Agent) *AgentDirectory {
	d := &AgentDirectory{index: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		key := NormalizeEmail(a.Email)
		if key == "" {
			continue
		}
		if _, dup := d.index[key]; dup {
			continue
		}
		a.Email = strings.TrimSpace(a.Email)
		if strings.TrimSpace(a.Name) == "" {
			a.Name = a.Email
		}
		d.index[key] = a
		d.agents = append(d.agents, a)
	}
	return d
}

// ResolveRole is total: an empty or unknown email resolves to client.
func (d *AgentDirectory) ResolveRole(email string) Role {
	if d == nil {
		return RoleClient
	}
	if _, ok := d.index[NormalizeEmail(email)]; ok {
		return RoleAgent
	}
	return RoleClient
}

func (d *AgentDirectory) Lookup(email string) (Agent, bool) {
	if d == nil {
		return Agent{}, false
	}
	a, ok := d.index[NormalizeEmail(email)]
	return a, ok
}

// Agents returns the roster in configuration order.
func (d *AgentDirectory) Agents() []Agent {
	if d == nil {
		return nil
	}
	out := make([]Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

func (d *AgentDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.agents)
}

// NewSession resolves the role of an identity against the directory.
func (d *AgentDirectory) NewSession(id Identity) *Session {
	return &Session{Identity: id, Role: d.ResolveRole(id.Email)}
}
