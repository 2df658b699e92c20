package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridHost = "https://api.sendgrid.com"

type SendGrid struct {
	key  string
	host string
	from Address
}

func NewSendGrid(key string, from Address) *SendGrid {
	return &SendGrid{key: key, host: sendGridHost, from: from}
}

// WithHost points the client at another API host.
func (s *SendGrid) WithHost(host string) *SendGrid {
	s.host = host
	return s
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail(s.from.Name, s.from.Email))
	v3.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Email))
	v3.AddPersonalizations(p)

	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	if msg.ReplyTo.Email != "" {
		v3.SetReplyTo(sgmail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}

	req := sendgrid.GetRequest(s.key, "/v3/mail/send", s.host)
	req.Method = "POST"
	req.Body = sgmail.GetRequestBody(v3)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("mail/sendgrid: send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail/sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
