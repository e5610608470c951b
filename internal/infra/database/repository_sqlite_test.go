package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/polyglot-leads/internal/entity"
)

func newSQLite(t *testing.T) (*LeadRepository, *ReplyRepository) {
	t.Helper()
	db, err := NewDBConnection(DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db, DialectSQLite))
	return NewLeadRepository(db, DialectSQLite), NewReplyRepository(db, DialectSQLite)
}

func seedLead(t *testing.T, repo *LeadRepository, email string, at time.Time) *entity.Lead {
	t.Helper()
	lead := entity.NewLead("Jane", email, "+1 555 123 4567", "Need pricing info for 50 seats", entity.LanguageSpanish)
	lead.CreatedAt = at
	require.NoError(t, repo.Create(context.Background(), lead))
	return lead
}

func TestSQLiteListNewestFirstWithTotals(t *testing.T) {
	ctx := context.Background()
	leads, _ := newSQLite(t)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	first := seedLead(t, leads, "a@x.com", base)
	second := seedLead(t, leads, "A@X.com", base.Add(time.Minute))
	third := seedLead(t, leads, "b@x.com", base.Add(2*time.Minute))

	all, total, err := leads.List(ctx, entity.LeadFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	mine, total, err := leads.List(ctx, entity.LeadFilter{Email: "a@X.COM", Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{mine[0].ID, mine[1].ID})
}

func TestSQLiteUpdateStatusTouchesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	leads, _ := newSQLite(t)
	lead := seedLead(t, leads, "a@x.com", time.Now().UTC())

	require.NoError(t, leads.ApplyEnrichment(ctx, lead.ID, entity.Enrichment{
		TranslatedMessage: "translated",
		Tag:               entity.TagPricing,
		AssignedTo:        "Agent A",
	}))

	updated, err := leads.UpdateStatus(ctx, lead.ID, entity.StatusContacted)
	require.NoError(t, err)
	again, err := leads.UpdateStatus(ctx, lead.ID, entity.StatusContacted)
	require.NoError(t, err)

	assert.Equal(t, updated, again)
	assert.Equal(t, entity.StatusContacted, again.Status)
	assert.Equal(t, entity.TagPricing, *again.Tag)
	assert.Equal(t, "Agent A", *again.AssignedTo)
	assert.Equal(t, lead.OriginalMessage, again.OriginalMessage)
	assert.True(t, lead.CreatedAt.Equal(again.CreatedAt))

	_, err = leads.UpdateStatus(ctx, "ghost", entity.StatusWon)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestSQLiteStatusColumnRejectsUnknownValue(t *testing.T) {
	leads, _ := newSQLite(t)
	lead := seedLead(t, leads, "a@x.com", time.Now().UTC())

	_, err := leads.UpdateStatus(context.Background(), lead.ID, entity.Status("Archived"))
	assert.Error(t, err)
}

func TestSQLiteRepliesOrderedAndBoundToLead(t *testing.T) {
	ctx := context.Background()
	leads, replies := newSQLite(t)
	lead := seedLead(t, leads, "a@x.com", time.Now().UTC())
	agent := entity.Agent{Email: "agenta@gmail.com", Name: "Agent A"}
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	late := entity.NewReply(lead, agent, "second", "segundo")
	late.CreatedAt = base.Add(time.Second)
	early := entity.NewReply(lead, agent, "first", "primero")
	early.CreatedAt = base
	require.NoError(t, replies.Create(ctx, late))
	require.NoError(t, replies.Create(ctx, early))

	thread, err := replies.ListByLead(ctx, lead.ID)
	require.NoError(t, err)
	again, err := replies.ListByLead(ctx, lead.ID)
	require.NoError(t, err)

	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].OriginalMessage)
	assert.Equal(t, "second", thread[1].OriginalMessage)
	assert.Equal(t, entity.LanguageSpanish, thread[0].TargetLanguage)
	assert.Equal(t, thread, again)

	orphan := entity.NewReply(&entity.Lead{ID: "ghost", Language: entity.LanguageEnglish}, agent, "hi", "hi")
	assert.ErrorIs(t, replies.Create(ctx, orphan), entity.ErrLeadNotFound)

	empty, err := replies.ListByLead(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteListUnenriched(t *testing.T) {
	ctx := context.Background()
	leads, _ := newSQLite(t)
	now := time.Now().UTC()

	old := seedLead(t, leads, "a@x.com", now.Add(-time.Hour))
	tagged := seedLead(t, leads, "b@x.com", now.Add(-time.Hour))
	seedLead(t, leads, "c@x.com", now)
	require.NoError(t, leads.ApplyEnrichment(ctx, tagged.ID, entity.Enrichment{TranslatedMessage: "x", Tag: entity.TagDemo}))

	pending, err := leads.ListUnenriched(ctx, now.Add(-time.Minute), 10)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, old.ID, pending[0].ID)
}

func TestSQLiteApplyEnrichmentWritesOnce(t *testing.T) {
	ctx := context.Background()
	leads, _ := newSQLite(t)
	lead := seedLead(t, leads, "a@x.com", time.Now().UTC())

	require.NoError(t, leads.ApplyEnrichment(ctx, lead.ID, entity.Enrichment{
		TranslatedMessage: "first",
		Tag:               entity.TagPricing,
		AssignedTo:        "Agent A",
	}))
	err := leads.ApplyEnrichment(ctx, lead.ID, entity.Enrichment{
		TranslatedMessage: "second",
		Tag:               entity.TagDemo,
		AssignedTo:        "Agent B",
	})
	assert.ErrorIs(t, err, entity.ErrAlreadyEnriched)

	stored, err := leads.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.TranslatedMessage)
	assert.Equal(t, entity.TagPricing, *stored.Tag)
	assert.Equal(t, "Agent A", *stored.AssignedTo)

	err = leads.ApplyEnrichment(ctx, "ghost", entity.Enrichment{TranslatedMessage: "x", Tag: entity.TagGeneral})
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestRebindSQLite(t *testing.T) {
	assert.Equal(t, "a = ? AND b = ?", DialectSQLite.Rebind("a = $1 AND b = $2"))
	assert.Equal(t, "a = $1", DialectPostgres.Rebind("a = $1"))
}
