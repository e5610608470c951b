package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/polyglot-leads/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Lead), args.Int(1), args.Error(2)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ApplyEnrichment(ctx context.Context, id string, e entity.Enrichment) error {
	args := m.Called(ctx, id, e)
	return args.Error(0)
}

func (m *MockLeadRepository) ListUnenriched(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, createdBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockReplyRepository
type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) Create(ctx context.Context, reply *entity.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReplyRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Reply, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reply), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCreated(ctx context.Context, event entity.LeadCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockTranslator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text string, from, to entity.Language) (string, error) {
	args := m.Called(ctx, text, from, to)
	return args.String(0), args.Error(1)
}

// MockClassifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (entity.Tag, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(entity.Tag), args.Error(1)
}

// MockCRM
type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) MirrorLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadAssigned(agent entity.Agent, lead *entity.Lead) error {
	args := m.Called(agent, lead)
	return args.Error(0)
}

func (m *MockEmailService) SendReplyNotification(lead *entity.Lead, reply *entity.Reply) error {
	args := m.Called(lead, reply)
	return args.Error(0)
}

// recordingMetrics counts calls instead of exporting them.
type recordingMetrics struct {
	created           []entity.Language
	statuses          []entity.Status
	replies           []entity.Language
	integrationErrors []string
}

func (r *recordingMetrics) LeadCreated(l entity.Language) { r.created = append(r.created, l) }
func (r *recordingMetrics) StatusUpdated(s entity.Status) { r.statuses = append(r.statuses, s) }
func (r *recordingMetrics) ReplySent(l entity.Language) { r.replies = append(r.replies, l) }
func (r *recordingMetrics) IntegrationError(service string) { r.integrationErrors = append(r.integrationErrors, service) }
