package usecase

import (
	"context"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type EventPublisher interface {
	PublishLeadCreated(ctx context.Context, event entity.LeadCreatedEvent) error
}

// Translator turns text from one supported language into another.
type Translator interface {
	Translate(ctx context.Context, text string, from, to entity.Language) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (entity.Tag, error)
}

type Assigner interface {
	Assign(ctx context.Context, lead *entity.Lead) (entity.Agent, bool)
}

type EmailService interface {
	SendLeadAssigned(agent entity.Agent, lead *entity.Lead) error
	SendReplyNotification(lead *entity.Lead, reply *entity.Reply) error
}

// CRMMirror copies enriched leads to an external CRM.
type CRMMirror interface {
	MirrorLead(ctx context.Context, lead *entity.Lead) error
}

type Metrics interface {
	LeadCreated(language entity.Language)
	StatusUpdated(status entity.Status)
	ReplySent(target entity.Language)
	IntegrationError(service string)
}

type noopMetrics struct{}

func (noopMetrics) LeadCreated(entity.Language) {}
func (noopMetrics) StatusUpdated(entity.Status) {}
func (noopMetrics) ReplySent(entity.Language) {}
func (noopMetrics) IntegrationError(string) {}

// PassthroughTranslator returns the text unchanged. It is the fallback when no
// translation backend is configured.
type PassthroughTranslator struct{}

func (PassthroughTranslator) Translate(_ context.Context, text string, _, _ entity.Language) (string, error) {
	return text, nil
}
