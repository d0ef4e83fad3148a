package mail

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/localauthority/leadengine/internal/entity"
	"github.com/localauthority/leadengine/internal/infra/queue"
)

const leadNotificationBody = `Hello,

A new {{.Niche}} lead just came in from our {{.City}} site.

  Name:    {{.LeadName}}
  Phone:   {{.LeadPhone}}
{{- if .LeadEmail}}
  Email:   {{.LeadEmail}}
{{- end}}
{{- if .Service}}
  Service: {{.Service}}
{{- end}}
{{- if .Message}}
  Message: {{.Message}}
{{- end}}
  Received: {{.ReceivedAt}}

Please reach out to the customer as soon as possible.

Regards,
Local Authority Lead Engine
`

const outreachBody = `Hello,

We operate {{.Niche}} websites in {{.City}} and have generated {{.LeadCount}} high-intent leads over the past 30 days. We are looking for a local business partner to take these leads on a pay-per-lead or subscription basis.

If you are interested, please reply to discuss pricing.

Regards,
Local Authority Lead Engine
`

var (
	leadNotificationTmpl = template.Must(template.New("lead_notification").Parse(leadNotificationBody))
	outreachTmpl         = template.Must(template.New("outreach").Parse(outreachBody))
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendLeadNotification forwards a routed lead's summary to the partner.
func (s *EmailSender) SendLeadNotification(n queue.LeadNotification) error {
	data := leadNotificationData{
		Niche:      n.Niche,
		City:       n.City,
		LeadName:   n.LeadName,
		LeadPhone:  n.LeadPhone,
		LeadEmail:  n.LeadEmail,
		Service:    n.Service,
		Message:    n.Message,
		ReceivedAt: n.ReceivedAt.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := leadNotificationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	subject := fmt.Sprintf("New %s lead in %s", n.Niche, n.City)
	return s.send(n.PartnerEmail, subject, body.String())
}

// OutreachMailer opens the sales conversation for a site that just
// became sales eligible. The recipient is the outreach inbox configured
// per deployment; prospect addresses are handled there.
type OutreachMailer struct {
	Sender *EmailSender
	To     string
}

func NewOutreachMailer(sender *EmailSender, to string) *OutreachMailer {
	return &OutreachMailer{Sender: sender, To: to}
}

func (m *OutreachMailer) SendOutreach(site *entity.Site, leadCount int) error {
	data := outreachData{
		Niche:     site.Niche,
		City:      site.City,
		LeadCount: leadCount,
	}

	var body bytes.Buffer
	if err := outreachTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render outreach body: %w", err)
	}

	subject := fmt.Sprintf("Partner opportunity: %d %s leads in %s", leadCount, site.Niche, site.City)
	return m.Sender.send(m.To, subject, body.String())
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}
