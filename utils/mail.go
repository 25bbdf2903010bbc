package utils

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"

	"gopkg.in/gomail.v2"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

// SendPasswordReset gives up when ctx is done; the dial itself keeps running
// until the relay answers.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Support")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	link := html.EscapeString(resetLink)
	msg.SetBody("text/html", fmt.Sprintf(`<h3>Password Reset</h3>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="%s" target="_blank">%s</a>
<p>This link will expire in 15 minutes.</p>`, link, link))

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send reset mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send reset mail: %w", ctx.Err())
	}
}

// LogMailer stands in for the relay when no mail credentials are configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	m.Logger.InfoContext(ctx, "mail relay not configured, reset link not sent", "to", to)
	return nil
}
