package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type TokenVerifier interface {
	Verify(token string) (entity.Identity, error)
}

type sessionKey struct{}

// Authenticator attaches a session to requests that carry a bearer token.
// Without a verifier it runs open: no request carries a session and agent
// routes are not guarded.
type Authenticator struct {
	verifier TokenVerifier
	agents   *entity.AgentDirectory
}

func NewAuthenticator(verifier TokenVerifier, agents *entity.AgentDirectory) *Authenticator {
	return &Authenticator{verifier: verifier, agents: agents}
}

func (a *Authenticator) Enabled() bool {
	return a != nil && a.verifier != nil
}

// Middleware resolves the role of the caller on every request. A missing token
// leaves the request anonymous; an invalid one is rejected.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header format (expected 'Bearer <token>')")
			return
		}

		identity, err := a.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		session := a.agents.NewSession(identity)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireSession rejects anonymous callers when authentication is enabled.
func (a *Authenticator) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Enabled() && SessionFromContext(r.Context()) == nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAgent lets only allow-listed agents through when authentication is enabled.
func (a *Authenticator) RequireAgent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		session := SessionFromContext(r.Context())
		if session == nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !session.IsAgent() {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "Agent access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithSession(ctx context.Context, s *entity.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) *entity.Session {
	s, _ := ctx.Value(sessionKey{}).(*entity.Session)
	return s
}

func writeAuthError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail, "code": code})
}
