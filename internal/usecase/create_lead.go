package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type CreateLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher EventPublisher
	Metrics   Metrics
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, publisher EventPublisher, metrics Metrics) *CreateLeadUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &CreateLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Metrics:   metrics,
	}
}

// Execute stores a new lead with status New and asks for enrichment. A failed
// publish does not fail the submission: the sweeper republishes unenriched leads.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead := entity.NewLead(input.Name, input.Email, input.Phone, input.Message, entity.Language(input.Language))

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, databaseError("failed to store lead", err)
	}
	uc.Metrics.LeadCreated(lead.Language)
	slog.Info("lead created", "lead_id", lead.ID, "language", lead.Language)

	if uc.Publisher != nil {
		event := entity.LeadCreatedEvent{
			LeadID:      lead.ID,
			Language:    lead.Language,
			Origin:      entity.OriginSubmission,
			PublishedAt: time.Now().UTC(),
		}
		if err := uc.Publisher.PublishLeadCreated(ctx, event); err != nil {
			uc.Metrics.IntegrationError("queue")
			slog.Warn("lead stored but enrichment event not published", "lead_id", lead.ID, "error", err)
		}
	}

	return lead, nil
}
