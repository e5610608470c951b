package usecase

import "github.com/xavierca1/polyglot-leads/internal/entity"

type CreateLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

type ListLeadsInput struct {
	Status string
	Limit  int
	Offset int
}

type ListLeadsOutput struct {
	Leads  []*entity.Lead `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type UpdateStatusInput struct {
	LeadID string `json:"-"`
	Status string `json:"status"`
}

type SendReplyInput struct {
	LeadID     string `json:"-"`
	Message    string `json:"message"`
	AgentEmail string `json:"agent_email"`
	AgentName  string `json:"agent_name"`
}

type ListRepliesOutput struct {
	Replies []*entity.Reply `json:"replies"`
}
