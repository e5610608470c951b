package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrAlreadyEnriched = errors.New("lead already enriched")
)

// Lead is a prospective customer's inquiry. Only Status is writable by agents;
// TranslatedMessage, Tag and AssignedTo belong to the enrichment process.
type Lead struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	OriginalMessage   string    `json:"original_message"`
	TranslatedMessage string    `json:"translated_message"`
	Language          Language  `json:"language"`
	Tag               *Tag      `json:"tag"`
	Status            Status    `json:"status"`
	AssignedTo        *string   `json:"assigned_to"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewLead builds a lead in its initial state. The submitter never picks the status.
func NewLead(name, email, phone, message string, language Language) *Lead {
	return &Lead{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(name),
		Email:             strings.TrimSpace(email),
		Phone:             strings.TrimSpace(phone),
		OriginalMessage:   message,
		TranslatedMessage: message,
		Language:          language,
		Status:            StatusNew,
		CreatedAt:         time.Now().UTC(),
	}
}

// Enriched reports whether the enrichment process has already tagged the lead.
func (l *Lead) Enriched() bool {
	return l.Tag != nil
}

// BelongsTo reports whether the lead was submitted under the given identity email.
func (l *Lead) BelongsTo(email string) bool {
	return EmailEqual(l.Email, email)
}

// Enrichment carries the externally derived fields of a lead.
type Enrichment struct {
	TranslatedMessage string
	Tag               Tag
	AssignedTo        string
}

// LeadFilter is the server-side listing query. Status is a single-value equality
// filter; the zero value lists everything.
type LeadFilter struct {
	Status Status
	Email  string
	Limit  int
	Offset int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
	ApplyEnrichment(ctx context.Context, id string, e Enrichment) error
	ListUnenriched(ctx context.Context, createdBefore time.Time, limit int) ([]*Lead, error)
}
