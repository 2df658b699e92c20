// Package mail sends transactional email through SendGrid, SMTP, or the
// application log during development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chiquebutik/butik/config"
)

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Message is one outgoing email. The sender is fixed per Mailer.
type Message struct {
	To      Address
	ReplyTo Address
	Subject string
	HTML    string
	Text    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To.Email) == "" {
		return errors.New("mail: recipient is empty")
	}
	if m.HTML == "" && m.Text == "" {
		return errors.New("mail: message has no body")
	}
	return nil
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the mailer selected by MAIL_DRIVER.
func New() (Mailer, error) {
	from := Address{Name: config.MailFromName(), Email: config.MailFrom()}

	switch config.MailDriver() {
	case "sendgrid":
		key := config.SendGridKey()
		if key == "" {
			return nil, errors.New("mail: SENDGRID_API_KEY is not configured")
		}
		return NewSendGrid(key, from), nil
	case "smtp":
		return NewSMTP(SMTPConfig{
			Host:     config.Get("MAIL_HOST", "localhost"),
			Port:     config.Get("MAIL_PORT", "587"),
			Username: config.Get("MAIL_USERNAME", ""),
			Password: config.Get("MAIL_PASSWORD", ""),
		}, from), nil
	case "log", "":
		return NewLog(from), nil
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", config.MailDriver())
	}
}
