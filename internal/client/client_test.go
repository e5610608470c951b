package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/polyglot-leads/internal/client"
	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/infra/database"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/handlers"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/server"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

var agents = entity.NewAgentDirectory([]entity.Agent{{Email: "agenta@gmail.com", Name: "Agent A"}})

func newAPI(t *testing.T) *client.Client {
	t.Helper()
	db, err := database.NewDBConnection(database.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DialectSQLite))

	leadRepo := database.NewLeadRepository(db, database.DialectSQLite)
	replyRepo := database.NewReplyRepository(db, database.DialectSQLite)

	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Leads: handlers.NewLeadHandler(
			usecase.NewCreateLeadUseCase(leadRepo, nil, nil),
			usecase.NewListLeadsUseCase(leadRepo),
			usecase.NewGetLeadUseCase(leadRepo),
			usecase.NewUpdateStatusUseCase(leadRepo, nil),
		),
		Replies: handlers.NewReplyHandler(
			usecase.NewSendReplyUseCase(leadRepo, replyRepo, nil, nil, nil),
			usecase.NewListRepliesUseCase(leadRepo, replyRepo),
			agents,
		),
		Health: handlers.NewHealthHandler(db, nil, nil, "test"),
		Auth:   middleware.NewAuthenticator(nil, agents),
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return c
}

func validInput(email string) usecase.CreateLeadInput {
	return usecase.CreateLeadInput{
		Name:     "Maria Lopez",
		Email:    email,
		Phone:    "+34 600 123 456",
		Message:  "Quiero saber el precio del plan",
		Language: "es",
	}
}

func TestClientLeadLifecycle(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)

	lead, err := api.CreateLead(ctx, validInput("maria@x.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, lead.Status)

	updated, err := api.UpdateStatus(ctx, lead.ID, "Contacted")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusContacted, updated.Status)

	page, err := api.ListLeads(ctx, client.ListOptions{Status: "Contacted"})
	require.NoError(t, err)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, 1, page.Total)

	reply, err := api.SendReply(ctx, lead.ID, "  Thanks, we will call you  ", entity.Agent{Email: "agenta@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "Thanks, we will call you", reply.OriginalMessage)
	assert.Equal(t, entity.LanguageSpanish, reply.TargetLanguage)
	assert.Equal(t, "Agent A", reply.AgentName)

	first, err := api.FetchReplies(ctx, lead.ID)
	require.NoError(t, err)
	second, err := api.FetchReplies(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 1)

	got, err := api.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusContacted, got.Status)
	assert.Nil(t, got.Tag)
}

func TestClientMyLeads(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)

	for _, email := range []string{"a@x.com", "A@X.com", "b@x.com"} {
		_, err := api.CreateLead(ctx, validInput(email))
		require.NoError(t, err)
	}

	page, err := api.MyLeads(ctx, client.ListOptions{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Len(t, page.Leads, 2)
	for _, l := range page.Leads {
		assert.True(t, l.BelongsTo("a@x.com"))
	}
}

func TestClientErrorKinds(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)

	_, err := api.GetLead(ctx, "missing")
	assert.Equal(t, client.NotFound, client.KindOf(err))

	_, err = api.SendReply(ctx, "missing", "hello", entity.Agent{Email: "agenta@gmail.com"})
	assert.Equal(t, client.NotFound, client.KindOf(err))

	_, err = api.ListLeads(ctx, client.ListOptions{Status: "Archived"})
	require.Error(t, err)
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.RequestFailure, cerr.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, cerr.Status)
	assert.Equal(t, usecase.CodeInvalidStatus, cerr.Code)
	assert.NotEmpty(t, cerr.Detail)
}

func TestClientValidatesBeforeSending(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	api, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	bad := validInput("not-an-email")
	bad.Message = "short"
	_, err = api.CreateLead(ctx, bad)
	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.ValidationFailure, cerr.Kind)
	assert.Len(t, cerr.Fields, 2)

	_, err = api.SendReply(ctx, "id", "   ", entity.Agent{Email: "agenta@gmail.com"})
	assert.Equal(t, client.ValidationFailure, client.KindOf(err))

	_, err = api.SendReply(ctx, "id", "hello", entity.Agent{})
	assert.Equal(t, client.ValidationFailure, client.KindOf(err))

	_, err = api.UpdateStatus(ctx, "id", "Archived")
	assert.Equal(t, client.ValidationFailure, client.KindOf(err))

	assert.Zero(t, hits.Load())
}

func TestClientRequestFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   client.Kind
		wantDetail string
	}{
		{"detail from server", http.StatusInternalServerError, `{"detail":"Internal server error","code":"DATABASE_ERROR"}`, client.RequestFailure, "Internal server error"},
		{"fallback message", http.StatusBadGateway, `<html>bad gateway</html>`, client.RequestFailure, "request failed with status 502"},
		{"not found", http.StatusNotFound, `{}`, client.NotFound, "request failed with status 404"},
		{"schema violation", http.StatusOK, `{"leads":[{"id":"x"}],"total":1}`, client.RequestFailure, "invalid response from server"},
		{"not json", http.StatusOK, `nope`, client.RequestFailure, "invalid response from server"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			api, err := client.New(srv.URL)
			require.NoError(t, err)

			_, err = api.ListLeads(context.Background(), client.ListOptions{})

			var cerr *client.Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.wantKind, cerr.Kind)
			assert.Equal(t, tt.wantDetail, cerr.Detail)
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	api, err := client.New(url)
	require.NoError(t, err)
	_, err = api.ListLeads(context.Background(), client.ListOptions{})

	var cerr *client.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, client.NetworkFailure, cerr.Kind)
	assert.True(t, cerr.Transient())
	assert.NotContains(t, cerr.Detail, "status")
}

func TestClientTimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	api, err := client.New(srv.URL, client.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = api.GetLead(context.Background(), "x")
	assert.Equal(t, client.NetworkFailure, client.KindOf(err))
}

func TestClientTimeoutLeavesSharedHTTPClientAlone(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	shared := &http.Client{}
	api, err := client.New(srv.URL, client.WithTimeout(50*time.Millisecond), client.WithHTTPClient(shared))
	require.NoError(t, err)

	_, err = api.GetLead(context.Background(), "x")
	assert.Equal(t, client.NetworkFailure, client.KindOf(err))
	assert.Zero(t, shared.Timeout)
}

func TestClientSendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"replies":[]}`))
	}))
	defer srv.Close()

	api, err := client.New(srv.URL, client.WithBearerToken("tok"))
	require.NoError(t, err)
	replies, err := api.FetchReplies(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, replies)
	assert.Equal(t, "Bearer tok", auth)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := client.New("not a url")
	assert.Error(t, err)
}
