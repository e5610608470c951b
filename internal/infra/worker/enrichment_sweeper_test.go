package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type mockRepo struct {
	mock.Mock
	entity.LeadRepositoryInterface
}

func (m *mockRepo) ListUnenriched(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, createdBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishLeadCreated(ctx context.Context, event entity.LeadCreatedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func TestSweepRepublishesWithSweeperOrigin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := new(mockRepo)
	pub := new(mockPublisher)

	repo.On("ListUnenriched", ctx, now.Add(-5*time.Minute), 50).Return([]*entity.Lead{
		{ID: "l1", Language: entity.LanguageArabic},
		{ID: "l2", Language: entity.LanguageChinese},
	}, nil)
	pub.On("PublishLeadCreated", ctx, entity.LeadCreatedEvent{LeadID: "l1", Language: entity.LanguageArabic, Origin: entity.OriginSweeper, PublishedAt: now}).Return(nil)
	pub.On("PublishLeadCreated", ctx, entity.LeadCreatedEvent{LeadID: "l2", Language: entity.LanguageChinese, Origin: entity.OriginSweeper, PublishedAt: now}).Return(errors.New("closed"))

	w := NewEnrichmentSweeper(repo, pub, time.Minute)
	w.now = func() time.Time { return now }

	assert.Equal(t, 1, w.Sweep(ctx))
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSweepRepositoryError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListUnenriched", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	w := NewEnrichmentSweeper(repo, new(mockPublisher), time.Minute)

	assert.Equal(t, 0, w.Sweep(context.Background()))
}

func TestStartStopsOnCancel(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListUnenriched", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewEnrichmentSweeper(repo, new(mockPublisher), time.Hour).Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (p *blockingPublisher) PublishLeadCreated(context.Context, entity.LeadCreatedEvent) error {
	p.calls.Add(1)
	p.entered <- struct{}{}
	<-p.release
	return nil
}

func TestGoStopWaitsForSweepInFlight(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListUnenriched", mock.Anything, mock.Anything, mock.Anything).
		Return([]*entity.Lead{{ID: "l1"}}, nil)
	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}

	stop := NewEnrichmentSweeper(repo, pub, time.Hour).Go(context.Background())
	<-pub.entered

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while a publish was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(pub.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.Equal(t, int32(1), pub.calls.Load())
}
