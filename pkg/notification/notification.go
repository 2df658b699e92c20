// Package notification delivers a message over one or more channels.
//
// Define a notification:
//
//	type OrderPaid struct{ Order models.Order }
//	func (n *OrderPaid) Via() []string { return []string{"mail", "slack"} }
//	func (n *OrderPaid) ToMail() (mail.Message, error) { ... }
//	func (n *OrderPaid) ToSlack() notification.SlackData { ... }
//
// Send:
//
//	notifier.Send(ctx, &OrderPaid{Order: o})
//
// Mail failures are returned so a queued job can retry. The slack channel
// is best effort: failures are logged and an unset webhook URL skips it.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/chiquebutik/butik/pkg/http"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/mail"
)

const (
	ChannelMail  = "mail"
	ChannelSlack = "slack"
)

// SlackData is a Slack incoming-webhook message.
type SlackData struct {
	Text        string
	Attachments []SlackAttachment
}

type SlackAttachment struct {
	Color  string `json:"color,omitempty"` // "good" | "warning" | "danger"
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// Notification names the channels it should go out on.
type Notification interface {
	Via() []string
}

type Mailable interface {
	ToMail() (mail.Message, error)
}

type Slackable interface {
	ToSlack() SlackData
}

type Notifier struct {
	mailer   mail.Mailer
	slackURL string
}

func New(mailer mail.Mailer, slackURL string) *Notifier {
	return &Notifier{mailer: mailer, slackURL: slackURL}
}

// Send dispatches n through every channel it names.
func (s *Notifier) Send(ctx context.Context, n Notification) error {
	var mailErr error
	for _, channel := range n.Via() {
		err := s.dispatch(ctx, channel, n)
		if err == nil {
			continue
		}
		if channel == ChannelMail {
			mailErr = err
			continue
		}
		logger.WithCtx(ctx).Warn("notification: channel failed", "channel", channel, "error", err)
	}
	return mailErr
}

func (s *Notifier) dispatch(ctx context.Context, channel string, n Notification) error {
	switch channel {
	case ChannelMail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		msg, err := m.ToMail()
		if err != nil {
			return fmt.Errorf("notification: render mail: %w", err)
		}
		return s.mailer.Send(ctx, msg)

	case ChannelSlack:
		sl, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		if s.slackURL == "" {
			return nil
		}
		return s.sendSlack(ctx, sl.ToSlack())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

type slackPayload struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

func (s *Notifier) sendSlack(ctx context.Context, d SlackData) error {
	resp, err := http.Post(s.slackURL).
		WithContext(ctx).
		Body(slackPayload{Text: d.Text, Attachments: d.Attachments}).
		Timeout(5 * time.Second).
		Retry(2, time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("notification: slack post: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("notification: slack: %w", err)
	}
	return nil
}
