package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendLeadAssigned tells an agent that enrichment routed a lead to them.
func (s *EmailSender) SendLeadAssigned(agent entity.Agent, lead *entity.Lead) error {
	data := LeadAssignedData{
		AgentName: agent.Name,
		LeadName:  lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Language:  lead.Language.Name(),
		Message:   lead.TranslatedMessage,
	}
	if lead.Tag != nil {
		data.Tag = string(*lead.Tag)
	}
	return s.send(agent.Email, "New lead assigned: "+lead.Name, "lead_assigned.html", data)
}

// SendReplyNotification mails the translated reply to the lead.
func (s *EmailSender) SendReplyNotification(lead *entity.Lead, reply *entity.Reply) error {
	data := ReplyNotificationData{
		LeadName:  lead.Name,
		AgentName: reply.AgentName,
		Message:   reply.TranslatedMessage,
	}
	return s.send(lead.Email, "Re: your inquiry", "reply_notification.html", data)
}

func (s *EmailSender) send(to, subject, tmpl string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
