package mail

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (c *captureDialer) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendLeadAssigned(t *testing.T) {
	dialer := &captureDialer{}
	s := &EmailSender{From: "leads@example.com", Dialer: dialer}
	tag := entity.TagPricing
	lead := &entity.Lead{
		Name:              "Ana <script>",
		Email:             "ana@x.com",
		Phone:             "+34 600 000 000",
		Language:          entity.LanguageSpanish,
		TranslatedMessage: "Need pricing",
		Tag:               &tag,
	}

	require.NoError(t, s.SendLeadAssigned(entity.Agent{Email: "agenta@gmail.com", Name: "Agent A"}, lead))

	require.Len(t, dialer.sent, 1)
	m := dialer.sent[0]
	assert.Equal(t, []string{"agenta@gmail.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"leads@example.com"}, m.GetHeader("From"))
	out := render(t, m)
	assert.Contains(t, out, "spanish")
	assert.Contains(t, out, "pricing")
	assert.NotContains(t, out, "<script>")
}

func TestSendReplyNotification(t *testing.T) {
	dialer := &captureDialer{}
	s := &EmailSender{From: "leads@example.com", Dialer: dialer}

	err := s.SendReplyNotification(
		&entity.Lead{Name: "Ana", Email: "ana@x.com"},
		&entity.Reply{AgentName: "Agent A", TranslatedMessage: "Le enviaremos una cotizacion"},
	)

	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	assert.Equal(t, []string{"ana@x.com"}, dialer.sent[0].GetHeader("To"))
	assert.Contains(t, render(t, dialer.sent[0]), "Le enviaremos una cotizacion")
}

func TestSendWrapsDialError(t *testing.T) {
	boom := errors.New("smtp down")
	s := &EmailSender{From: "leads@example.com", Dialer: &captureDialer{err: boom}}

	err := s.SendReplyNotification(&entity.Lead{Email: "a@x.com"}, &entity.Reply{})

	assert.ErrorIs(t, err, boom)
}
