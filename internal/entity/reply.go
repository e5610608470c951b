package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reply is an agent's answer on a lead thread. Replies are immutable and are
// ordered by CreatedAt ascending inside their thread.
type Reply struct {
	ID                string    `json:"id"`
	LeadID            string    `json:"lead_id"`
	AgentEmail        string    `json:"agent_email"`
	AgentName         string    `json:"agent_name"`
	OriginalMessage   string    `json:"original_message"`
	TranslatedMessage string    `json:"translated_message"`
	TargetLanguage    Language  `json:"target_language"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewReply binds the reply to the lead's language at send time.
func NewReply(lead *Lead, agent Agent, original, translated string) *Reply {
	return &Reply{
		ID:                uuid.New().String(),
		LeadID:            lead.ID,
		AgentEmail:        agent.Email,
		AgentName:         agent.Name,
		OriginalMessage:   original,
		TranslatedMessage: translated,
		TargetLanguage:    lead.Language,
		CreatedAt:         time.Now().UTC(),
	}
}

type ReplyRepositoryInterface interface {
	Create(ctx context.Context, reply *Reply) error
	ListByLead(ctx context.Context, leadID string) ([]*Reply, error)
}
