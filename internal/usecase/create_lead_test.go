package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

func validLeadInput() usecase.CreateLeadInput {
	return usecase.CreateLeadInput{
		Name:     "Jane",
		Email:    "jane@x.com",
		Phone:    "+1 555 123 4567",
		Message:  "Need pricing info for 50 seats",
		Language: "en",
	}
}

func TestCreateLeadStoresNewLeadAndPublishes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	metrics := &recordingMetrics{}

	repo.On("Create", ctx, mock.AnythingOfType("*entity.Lead")).Return(nil)
	pub.On("PublishLeadCreated", ctx, mock.MatchedBy(func(e entity.LeadCreatedEvent) bool {
		return e.Origin == entity.OriginSubmission && e.Language == entity.LanguageEnglish && e.LeadID != ""
	})).Return(nil)

	uc := usecase.NewCreateLeadUseCase(repo, pub, metrics)
	lead, err := uc.Execute(ctx, validLeadInput())

	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, "Need pricing info for 50 seats", lead.OriginalMessage)
	assert.Nil(t, lead.Tag)
	assert.Nil(t, lead.AssignedTo)
	assert.Equal(t, []entity.Language{entity.LanguageEnglish}, metrics.created)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateLeadValidationNeverReachesStore(t *testing.T) {
	repo := new(MockLeadRepository)

	input := validLeadInput()
	input.Name = " J "
	input.Email = "not-an-email"
	input.Phone = "abc"
	input.Message = "short"
	input.Language = "xx"

	uc := usecase.NewCreateLeadUseCase(repo, nil, nil)
	lead, err := uc.Execute(context.Background(), input)

	assert.Nil(t, lead)
	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, usecase.CodeValidation, de.Code)

	fields := make([]string, 0, len(de.Fields))
	for _, f := range de.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "phone", "message", "language"}, fields)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLeadPublishFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	pub := new(MockPublisher)
	metrics := &recordingMetrics{}

	repo.On("Create", ctx, mock.Anything).Return(nil)
	pub.On("PublishLeadCreated", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := usecase.NewCreateLeadUseCase(repo, pub, metrics)
	lead, err := uc.Execute(ctx, validLeadInput())

	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, []string{"queue"}, metrics.integrationErrors)
}

func TestCreateLeadDatabaseFailureIsTechnical(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	uc := usecase.NewCreateLeadUseCase(repo, nil, nil)
	_, err := uc.Execute(ctx, validLeadInput())

	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
	assert.False(t, usecase.IsDomainError(err))
}
