package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute lists leads newest first, optionally filtered by a single status.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, filter)
}

// ExecuteForOwner lists only the leads submitted under email. This is the
// authoritative "my leads" filter; it runs in the store, not in the caller.
func (uc *ListLeadsUseCase) ExecuteForOwner(ctx context.Context, email string, input ListLeadsInput) (*ListLeadsOutput, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &DomainError{Code: CodeForbidden, Message: "an authenticated email is required"}
	}
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}
	filter.Email = email
	return uc.list(ctx, filter)
}

func (uc *ListLeadsUseCase) list(ctx context.Context, filter entity.LeadFilter) (*ListLeadsOutput, error) {
	leads, total, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, databaseError("failed to list leads", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return &ListLeadsOutput{
		Leads:  leads,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func buildFilter(input ListLeadsInput) (entity.LeadFilter, error) {
	filter := entity.LeadFilter{Limit: input.Limit, Offset: input.Offset}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		return filter, validationFailed([]ValidationError{{"offset", "must not be negative"}})
	}

	if strings.TrimSpace(input.Status) != "" {
		status, err := entity.ParseStatus(input.Status)
		if err != nil {
			return filter, &DomainError{Code: CodeInvalidStatus, Message: "unknown status filter: " + input.Status}
		}
		filter.Status = status
	}
	return filter, nil
}

type GetLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, mapLeadLookup(leadID, err)
	}
	return lead, nil
}
