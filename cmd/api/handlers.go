package main

import (
	"database/sql"
	"log/slog"

	"github.com/xavierca1/polyglot-leads/internal/config"
	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/infra/database"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/handlers"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
	"github.com/xavierca1/polyglot-leads/internal/infra/integration/gemini"
	"github.com/xavierca1/polyglot-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/polyglot-leads/internal/infra/mail"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

// services holds the adapters shared by the API and the enrichment worker.
type services struct {
	leadRepo   *database.LeadRepository
	replyRepo  *database.ReplyRepository
	agents     *entity.AgentDirectory
	translator usecase.Translator
	classifier usecase.Classifier
	email      usecase.EmailService
	crm        usecase.CRMMirror
	metrics    usecase.Metrics
}

func newServices(cfg *config.Config, db *sql.DB, dialect database.Dialect) *services {
	s := &services{
		leadRepo:   database.NewLeadRepository(db, dialect),
		replyRepo:  database.NewReplyRepository(db, dialect),
		agents:     entity.NewAgentDirectory(cfg.Agents),
		translator: usecase.PassthroughTranslator{},
		metrics:    middleware.PromMetrics{},
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("gemini disabled", "error", err)
		} else {
			s.translator = gemini.NewTranslator(client)
			s.classifier = gemini.NewClassifier(client)
		}
	} else {
		slog.Warn("GEMINI_API_KEY not set, leads keep their original text and the general tag")
	}

	if cfg.Mail.Enabled() {
		s.email = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	}
	if cfg.Kommo.Enabled() {
		s.crm = kommo.NewClient(cfg.Kommo.APIToken, cfg.Kommo.BaseURL, cfg.Kommo.StatusID)
	}
	return s
}

func (s *services) enrichLead() *usecase.EnrichLeadUseCase {
	return usecase.NewEnrichLeadUseCase(
		s.leadRepo,
		s.translator,
		s.classifier,
		usecase.NewRoundRobinAssigner(s.agents),
		s.email,
		s.crm,
		s.metrics,
	)
}

func (s *services) leadHandler(publisher usecase.EventPublisher) *handlers.LeadHandler {
	return handlers.NewLeadHandler(
		usecase.NewCreateLeadUseCase(s.leadRepo, publisher, s.metrics),
		usecase.NewListLeadsUseCase(s.leadRepo),
		usecase.NewGetLeadUseCase(s.leadRepo),
		usecase.NewUpdateStatusUseCase(s.leadRepo, s.metrics),
	)
}

func (s *services) replyHandler() *handlers.ReplyHandler {
	return handlers.NewReplyHandler(
		usecase.NewSendReplyUseCase(s.leadRepo, s.replyRepo, s.translator, s.email, s.metrics),
		usecase.NewListRepliesUseCase(s.leadRepo, s.replyRepo),
		s.agents,
	)
}
