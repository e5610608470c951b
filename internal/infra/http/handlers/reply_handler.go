package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

type ReplyHandler struct {
	SendReplyUC   *usecase.SendReplyUseCase
	ListRepliesUC *usecase.ListRepliesUseCase
	Agents        *entity.AgentDirectory
}

func NewReplyHandler(send *usecase.SendReplyUseCase, list *usecase.ListRepliesUseCase, agents *entity.AgentDirectory) *ReplyHandler {
	return &ReplyHandler{SendReplyUC: send, ListRepliesUC: list, Agents: agents}
}

// Send handles POST /leads/{id}/replies. An authenticated agent may only reply
// as themselves; blank identity fields are filled from the session.
func (h *ReplyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendReplyInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	if session := middleware.SessionFromContext(r.Context()); session != nil {
		if strings.TrimSpace(input.AgentEmail) == "" {
			input.AgentEmail = session.Email
		} else if !entity.EmailEqual(input.AgentEmail, session.Email) {
			writeError(w, http.StatusForbidden, usecase.CodeForbidden, "agent_email does not match the signed-in agent")
			return
		}
	}
	if strings.TrimSpace(input.AgentName) == "" {
		if agent, ok := h.Agents.Lookup(input.AgentEmail); ok {
			input.AgentName = agent.Name
		}
	}

	reply, err := h.SendReplyUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

// List handles GET /leads/{id}/replies. Clients only see threads of their own leads.
func (h *ReplyHandler) List(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var (
		out *usecase.ListRepliesOutput
		err error
	)
	if session := middleware.SessionFromContext(r.Context()); session != nil && !session.IsAgent() {
		out, err = h.ListRepliesUC.ExecuteForOwner(r.Context(), leadID, session.Email)
	} else {
		out, err = h.ListRepliesUC.Execute(r.Context(), leadID)
	}
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
