package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type EnrichLeadUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Translator   Translator
	Classifier   Classifier
	Assigner     Assigner
	EmailService EmailService
	CRM          CRMMirror
	Metrics      Metrics
}

func NewEnrichLeadUseCase(
	repo entity.LeadRepositoryInterface,
	translator Translator,
	classifier Classifier,
	assigner Assigner,
	emailService EmailService,
	crm CRMMirror,
	metrics Metrics,
) *EnrichLeadUseCase {
	if translator == nil {
		translator = PassthroughTranslator{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &EnrichLeadUseCase{
		Repo:         repo,
		Translator:   translator,
		Classifier:   classifier,
		Assigner:     assigner,
		EmailService: emailService,
		CRM:          crm,
		Metrics:      metrics,
	}
}

// Execute fills the derived fields of a lead: the pivot-language translation,
// the tag and the assigned agent. It never touches the status. An event for an
// already enriched lead is acknowledged without work, and when two deliveries
// race only the first write wins and only it notifies the agent and the CRM.
func (uc *EnrichLeadUseCase) Execute(ctx context.Context, event entity.LeadCreatedEvent) error {
	lead, err := uc.Repo.FindByID(ctx, event.LeadID)
	if err != nil {
		return fmt.Errorf("failed to load lead %s: %w", event.LeadID, err)
	}
	if lead.Enriched() {
		slog.Debug("lead already enriched", "lead_id", lead.ID, "origin", event.Origin)
		return nil
	}

	translated := lead.OriginalMessage
	if lead.Language != entity.PivotLanguage {
		out, err := uc.Translator.Translate(ctx, lead.OriginalMessage, lead.Language, entity.PivotLanguage)
		if err != nil || strings.TrimSpace(out) == "" {
			uc.Metrics.IntegrationError("translator")
			slog.Warn("lead translation failed, keeping original text", "lead_id", lead.ID, "error", translationError(entity.PivotLanguage, err))
		} else {
			translated = out
		}
	}

	tag := entity.TagGeneral
	if uc.Classifier != nil {
		t, err := uc.Classifier.Classify(ctx, translated)
		if err != nil {
			uc.Metrics.IntegrationError("classifier")
			slog.Warn("lead classification failed, using general", "lead_id", lead.ID, "error", err)
		} else if t.Valid() {
			tag = t
		}
	}

	var agent entity.Agent
	var assigned bool
	if uc.Assigner != nil {
		agent, assigned = uc.Assigner.Assign(ctx, lead)
	}

	enrichment := entity.Enrichment{TranslatedMessage: translated, Tag: tag}
	if assigned {
		enrichment.AssignedTo = agent.Name
	}
	if err := uc.Repo.ApplyEnrichment(ctx, lead.ID, enrichment); err != nil {
		if errors.Is(err, entity.ErrAlreadyEnriched) {
			slog.Info("lead enriched by a concurrent delivery, skipping", "lead_id", lead.ID, "origin", event.Origin)
			return nil
		}
		return fmt.Errorf("failed to store enrichment for lead %s: %w", lead.ID, err)
	}

	lead.TranslatedMessage = translated
	lead.Tag = &tag
	if assigned {
		lead.AssignedTo = &agent.Name
	}
	slog.Info("lead enriched", "lead_id", lead.ID, "tag", tag, "assigned_to", enrichment.AssignedTo, "origin", event.Origin)

	if assigned && uc.EmailService != nil {
		if err := uc.EmailService.SendLeadAssigned(agent, lead); err != nil {
			uc.Metrics.IntegrationError("mail")
			slog.Warn("assignment mail not sent", "lead_id", lead.ID, "agent", agent.Email, "error", err)
		}
	}

	if uc.CRM != nil {
		if err := uc.CRM.MirrorLead(ctx, lead); err != nil {
			uc.Metrics.IntegrationError("crm")
			slog.Warn("lead not mirrored to crm", "lead_id", lead.ID, "error", err)
		}
	}

	return nil
}
