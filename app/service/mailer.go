package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/jobtrack/backend/config"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var mailTemplates embed.FS

// Mailer sends the lifecycle and reminder emails. Sends are fire-and-forget
// relative to the request; a failure is logged by the caller and never rolls
// back state.
type Mailer interface {
	SendVerificationEmail(to, firstName, link string) error
	SendPasswordResetEmail(to, firstName, link string) error
	SendDeletionConfirmEmail(to, firstName, link string) error
	SendInterviewReminder(to, firstName, positionName, employerName string, scheduledAt time.Time) error
}

type smtpMailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

func NewSMTPMailer(cfg config.SMTPConfig) (Mailer, error) {
	templates, err := template.ParseFS(mailTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &smtpMailer{
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:      cfg.From,
		templates: templates,
	}, nil
}

func (m *smtpMailer) SendVerificationEmail(to, firstName, link string) error {
	return m.send(to, "Verify your email address", "verify_email.html", map[string]string{
		"FirstName": firstName,
		"Link":      link,
	})
}

func (m *smtpMailer) SendPasswordResetEmail(to, firstName, link string) error {
	return m.send(to, "Reset your password", "reset_password.html", map[string]string{
		"FirstName": firstName,
		"Link":      link,
	})
}

func (m *smtpMailer) SendDeletionConfirmEmail(to, firstName, link string) error {
	return m.send(to, "Confirm account deletion", "delete_account.html", map[string]string{
		"FirstName": firstName,
		"Link":      link,
	})
}

func (m *smtpMailer) SendInterviewReminder(to, firstName, positionName, employerName string, scheduledAt time.Time) error {
	return m.send(to, "Interview tomorrow: "+positionName, "interview_reminder.html", map[string]string{
		"FirstName":    firstName,
		"PositionName": positionName,
		"EmployerName": employerName,
		"ScheduledAt":  scheduledAt.Format("Monday, 2 January 2006 at 15:04"),
	})
}

func (m *smtpMailer) send(to, subject, templateName string, data map[string]string) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
