package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"blogapi/internal/config"
)

var templates = map[string]*template.Template{
	"verification_email": template.Must(template.New("verification_email").Parse(
		"Hello {{.FirstName}},\n\n" +
			"Thanks for registering on {{.SiteName}}.\n" +
			"Confirm your email using this token: {{.Token}}\n",
	)),
	"new_comment": template.Must(template.New("new_comment").Parse(
		"You have a new comment on your post:\n{{.PostLink}}\n",
	)),
}

var subjects = map[string]string{
	"verification_email": "Your registration",
	"new_comment":        "You have new comment",
}

// Mailer renders named templates and delivers them over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a Mailer from the SMTP settings in the config.
func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// Send renders the named template with the given context and delivers it to
// the target address.
func (m *Mailer) Send(templateName, target string, context map[string]string) error {
	tmpl, ok := templates[templateName]
	if !ok {
		return fmt.Errorf("unknown mail template: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, context); err != nil {
		return fmt.Errorf("render mail template %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", target)
	msg.SetHeader("Subject", subjects[templateName])
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", target, err)
	}
	return nil
}
