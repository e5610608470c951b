package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type SendReplyUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	ReplyRepo    entity.ReplyRepositoryInterface
	Translator   Translator
	EmailService EmailService
	Metrics      Metrics
}

func NewSendReplyUseCase(
	leadRepo entity.LeadRepositoryInterface,
	replyRepo entity.ReplyRepositoryInterface,
	translator Translator,
	emailService EmailService,
	metrics Metrics,
) *SendReplyUseCase {
	if translator == nil {
		translator = PassthroughTranslator{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SendReplyUseCase{
		LeadRepo:     leadRepo,
		ReplyRepo:    replyRepo,
		Translator:   translator,
		EmailService: emailService,
		Metrics:      metrics,
	}
}

// Execute translates an agent reply from the pivot language into the lead's
// language and appends it to the lead's thread.
func (uc *SendReplyUseCase) Execute(ctx context.Context, input SendReplyInput) (*entity.Reply, error) {
	if errs := ValidateSendReplyInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, mapLeadLookup(input.LeadID, err)
	}

	original := strings.TrimSpace(input.Message)
	translated := original
	if lead.Language != entity.PivotLanguage {
		out, err := uc.Translator.Translate(ctx, original, entity.PivotLanguage, lead.Language)
		if err != nil || strings.TrimSpace(out) == "" {
			uc.Metrics.IntegrationError("translator")
			slog.Warn("reply translation failed, sending original text", "lead_id", lead.ID, "error", translationError(lead.Language, err))
		} else {
			translated = out
		}
	}

	agent := entity.Agent{
		Email: strings.TrimSpace(input.AgentEmail),
		Name:  strings.TrimSpace(input.AgentName),
	}
	if agent.Name == "" {
		agent.Name = agent.Email
	}

	reply := entity.NewReply(lead, agent, original, translated)
	if err := uc.ReplyRepo.Create(ctx, reply); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, notFound(input.LeadID)
		}
		return nil, databaseError("failed to store reply", err)
	}

	uc.Metrics.ReplySent(reply.TargetLanguage)
	slog.Info("reply sent", "lead_id", lead.ID, "reply_id", reply.ID, "target_language", reply.TargetLanguage)

	if uc.EmailService != nil {
		go func() {
			if err := uc.EmailService.SendReplyNotification(lead, reply); err != nil {
				slog.Warn("reply notification not sent", "lead_id", lead.ID, "error", err)
			}
		}()
	}

	return reply, nil
}
