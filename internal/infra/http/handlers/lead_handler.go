package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

type LeadHandler struct {
	CreateLeadUC   *usecase.CreateLeadUseCase
	ListLeadsUC    *usecase.ListLeadsUseCase
	GetLeadUC      *usecase.GetLeadUseCase
	UpdateStatusUC *usecase.UpdateStatusUseCase
}

func NewLeadHandler(
	create *usecase.CreateLeadUseCase,
	list *usecase.ListLeadsUseCase,
	get *usecase.GetLeadUseCase,
	updateStatus *usecase.UpdateStatusUseCase,
) *LeadHandler {
	return &LeadHandler{
		CreateLeadUC:   create,
		ListLeadsUC:    list,
		GetLeadUC:      get,
		UpdateStatusUC: updateStatus,
	}
}

// Create handles POST /leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.CreateLeadUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// List handles GET /leads?limit&offset&status.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	input, ok := parseListInput(w, r)
	if !ok {
		return
	}

	out, err := h.ListLeadsUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Mine handles GET /me/leads. The owner email comes from the session; in open
// mode it is taken from the email query parameter.
func (h *LeadHandler) Mine(w http.ResponseWriter, r *http.Request) {
	input, ok := parseListInput(w, r)
	if !ok {
		return
	}

	email := r.URL.Query().Get("email")
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		email = session.Email
	}

	out, err := h.ListLeadsUC.ExecuteForOwner(r.Context(), email, input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /leads/{id}.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.GetLeadUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// UpdateStatus handles PATCH /leads/{id}.
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	lead, err := h.UpdateStatusUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func parseListInput(w http.ResponseWriter, r *http.Request) (usecase.ListLeadsInput, bool) {
	q := r.URL.Query()
	input := usecase.ListLeadsInput{Status: q.Get("status")}

	var fields []usecase.ValidationError
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, usecase.ValidationError{Field: "limit", Message: "must be an integer"})
		}
		input.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, usecase.ValidationError{Field: "offset", Message: "must be an integer"})
		}
		input.Offset = n
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Detail: "invalid query parameters",
			Code:   usecase.CodeValidation,
			Errors: fields,
		})
		return input, false
	}
	return input, true
}
