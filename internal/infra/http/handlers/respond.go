package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

// ErrorResponse is the body of every non-2xx answer. Detail is always set.
type ErrorResponse struct {
	Detail string                    `json:"detail"`
	Code   string                    `json:"code,omitempty"`
	Errors []usecase.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail, Code: code})
}

// writeUseCaseError maps use case errors onto HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusUnprocessableEntity
		switch de.Code {
		case usecase.CodeLeadNotFound:
			status = http.StatusNotFound
		case usecase.CodeForbidden:
			status = http.StatusForbidden
		}
		writeJSON(w, status, ErrorResponse{Detail: de.Message, Code: de.Code, Errors: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", te.Code, "error", te.Err)
		writeError(w, http.StatusInternalServerError, te.Code, "Internal server error")
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
