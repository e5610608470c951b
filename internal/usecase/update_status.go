package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type UpdateStatusUseCase struct {
	Repo    entity.LeadRepositoryInterface
	Metrics Metrics
}

func NewUpdateStatusUseCase(repo entity.LeadRepositoryInterface, metrics Metrics) *UpdateStatusUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UpdateStatusUseCase{Repo: repo, Metrics: metrics}
}

// Execute overwrites the status of an existing lead. Any status may follow any
// other; reapplying the current status leaves the lead unchanged.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.Lead, error) {
	status, err := entity.ParseStatus(input.Status)
	if err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidStatus,
			Message: "invalid status: " + input.Status,
			Fields:  []ValidationError{{"status", "must be one of New, Contacted, Qualified, Lost, Won"}},
		}
	}

	lead, err := uc.Repo.UpdateStatus(ctx, input.LeadID, status)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, notFound(input.LeadID)
		}
		return nil, databaseError("failed to update lead status", err)
	}

	uc.Metrics.StatusUpdated(status)
	slog.Info("lead status updated", "lead_id", lead.ID, "status", status)
	return lead, nil
}
