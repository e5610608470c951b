package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/polyglot-leads/internal/entity"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

func spanishLead() *entity.Lead {
	return &entity.Lead{ID: "lead-es", Email: "ana@x.com", Language: entity.LanguageSpanish, Status: entity.StatusNew}
}

func TestSendReplyTranslatesIntoLeadLanguage(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)
	translator := new(MockTranslator)
	metrics := &recordingMetrics{}

	leads.On("FindByID", ctx, "lead-es").Return(spanishLead(), nil)
	translator.On("Translate", ctx, "We'll follow up with a quote", entity.LanguageEnglish, entity.LanguageSpanish).
		Return("Le enviaremos una cotización", nil)
	replies.On("Create", ctx, mock.AnythingOfType("*entity.Reply")).Return(nil)

	uc := usecase.NewSendReplyUseCase(leads, replies, translator, nil, metrics)
	reply, err := uc.Execute(ctx, usecase.SendReplyInput{
		LeadID:     "lead-es",
		Message:    "  We'll follow up with a quote ",
		AgentEmail: "agenta@gmail.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "lead-es", reply.LeadID)
	assert.Equal(t, entity.LanguageSpanish, reply.TargetLanguage)
	assert.Equal(t, "We'll follow up with a quote", reply.OriginalMessage)
	assert.Equal(t, "Le enviaremos una cotización", reply.TranslatedMessage)
	assert.Equal(t, "agenta@gmail.com", reply.AgentName)
	assert.Equal(t, []entity.Language{entity.LanguageSpanish}, metrics.replies)
}

func TestSendReplySkipsTranslationForPivotLanguage(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)
	translator := new(MockTranslator)

	leads.On("FindByID", ctx, "lead-en").Return(&entity.Lead{ID: "lead-en", Language: entity.LanguageEnglish}, nil)
	replies.On("Create", ctx, mock.Anything).Return(nil)

	reply, err := usecase.NewSendReplyUseCase(leads, replies, translator, nil, nil).Execute(ctx, usecase.SendReplyInput{
		LeadID: "lead-en", Message: "Thanks", AgentEmail: "agentb@gmail.com", AgentName: "Agent B",
	})

	require.NoError(t, err)
	assert.Equal(t, reply.OriginalMessage, reply.TranslatedMessage)
	translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendReplyTranslationFailureFallsBackToOriginal(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)
	translator := new(MockTranslator)
	metrics := &recordingMetrics{}

	leads.On("FindByID", ctx, "lead-es").Return(spanishLead(), nil)
	translator.On("Translate", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))
	replies.On("Create", ctx, mock.Anything).Return(nil)

	reply, err := usecase.NewSendReplyUseCase(leads, replies, translator, nil, metrics).Execute(ctx, usecase.SendReplyInput{
		LeadID: "lead-es", Message: "Hello there", AgentEmail: "agenta@gmail.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply.TranslatedMessage)
	assert.Equal(t, entity.LanguageSpanish, reply.TargetLanguage)
	assert.Equal(t, []string{"translator"}, metrics.integrationErrors)
}

func TestSendReplyRejectsBlankMessage(t *testing.T) {
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)

	_, err := usecase.NewSendReplyUseCase(leads, replies, nil, nil, nil).Execute(context.Background(), usecase.SendReplyInput{
		LeadID: "lead-es", Message: "   ", AgentEmail: "",
	})

	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, usecase.CodeValidation, de.Code)
	assert.Len(t, de.Fields, 2)
	leads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	replies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendReplyUnknownLead(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	leads.On("FindByID", ctx, "ghost").Return(nil, entity.ErrLeadNotFound)

	_, err := usecase.NewSendReplyUseCase(leads, new(MockReplyRepository), nil, nil, nil).Execute(ctx, usecase.SendReplyInput{
		LeadID: "ghost", Message: "Hi", AgentEmail: "agenta@gmail.com",
	})

	assert.Equal(t, usecase.CodeLeadNotFound, usecase.DomainCode(err))
}

func TestSendReplyLeadDeletedBeforeInsert(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)
	leads.On("FindByID", ctx, "lead-es").Return(spanishLead(), nil)
	replies.On("Create", ctx, mock.Anything).Return(entity.ErrLeadNotFound)

	_, err := usecase.NewSendReplyUseCase(leads, replies, usecase.PassthroughTranslator{}, nil, nil).Execute(ctx, usecase.SendReplyInput{
		LeadID: "lead-es", Message: "Hi", AgentEmail: "agenta@gmail.com",
	})

	assert.Equal(t, usecase.CodeLeadNotFound, usecase.DomainCode(err))
}

func TestSendReplyNotifiesLead(t *testing.T) {
	ctx := context.Background()
	leads := new(MockLeadRepository)
	replies := new(MockReplyRepository)
	mail := new(MockEmailService)
	sent := make(chan struct{})

	leads.On("FindByID", ctx, "lead-en").Return(&entity.Lead{ID: "lead-en", Language: entity.LanguageEnglish}, nil)
	replies.On("Create", ctx, mock.Anything).Return(nil)
	mail.On("SendReplyNotification", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { close(sent) })

	_, err := usecase.NewSendReplyUseCase(leads, replies, nil, mail, nil).Execute(ctx, usecase.SendReplyInput{
		LeadID: "lead-en", Message: "Hi", AgentEmail: "agenta@gmail.com",
	})
	require.NoError(t, err)

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("reply notification was not sent")
	}
}
