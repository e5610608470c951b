package usecase

import (
	"context"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type ListRepliesUseCase struct {
	LeadRepo  entity.LeadRepositoryInterface
	ReplyRepo entity.ReplyRepositoryInterface
}

func NewListRepliesUseCase(leadRepo entity.LeadRepositoryInterface, replyRepo entity.ReplyRepositoryInterface) *ListRepliesUseCase {
	return &ListRepliesUseCase{LeadRepo: leadRepo, ReplyRepo: replyRepo}
}

// Execute returns the thread of a lead oldest first. It has no side effects, so
// two calls without a reply in between return the same sequence.
func (uc *ListRepliesUseCase) Execute(ctx context.Context, leadID string) (*ListRepliesOutput, error) {
	if _, err := uc.LeadRepo.FindByID(ctx, leadID); err != nil {
		return nil, mapLeadLookup(leadID, err)
	}
	return uc.list(ctx, leadID)
}

// ExecuteForOwner returns the thread only when the lead was submitted under email.
func (uc *ListRepliesUseCase) ExecuteForOwner(ctx context.Context, leadID, email string) (*ListRepliesOutput, error) {
	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, mapLeadLookup(leadID, err)
	}
	if !lead.BelongsTo(email) {
		return nil, &DomainError{Code: CodeForbidden, Message: "lead " + leadID + " belongs to another identity"}
	}
	return uc.list(ctx, leadID)
}

func (uc *ListRepliesUseCase) list(ctx context.Context, leadID string) (*ListRepliesOutput, error) {
	replies, err := uc.ReplyRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, databaseError("failed to list replies", err)
	}
	if replies == nil {
		replies = []*entity.Reply{}
	}
	return &ListRepliesOutput{Replies: replies}, nil
}
