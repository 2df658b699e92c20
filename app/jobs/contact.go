package jobs

import (
	"context"
	"fmt"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/mail"
	"github.com/chiquebutik/butik/pkg/notification"
)

// ContactOwnerEmail forwards a contact message to the shop owner with the
// customer as reply-to.
type ContactOwnerEmail struct {
	MessageID uint `json:"message_id"`
	deps      *Deps
}

func NewContactOwnerEmail(d *Deps, messageID uint) *ContactOwnerEmail {
	return &ContactOwnerEmail{MessageID: messageID, deps: d}
}

func (j *ContactOwnerEmail) Name() string { return "mail.contact_owner" }

func (j *ContactOwnerEmail) Handle(ctx context.Context) error {
	if j.deps.OwnerEmail == "" {
		logger.WithCtx(ctx).Warn("jobs: SHOP_OWNER_EMAIL not set, contact message not forwarded", "message_id", j.MessageID)
		return nil
	}
	msg, err := j.deps.Contacts.GetMessage(ctx, j.MessageID)
	if err != nil {
		return fmt.Errorf("jobs: contact owner: %w", err)
	}
	return j.deps.Notifier.Send(ctx, &ownerNotice{msg: msg, owner: j.deps.OwnerEmail, shop: j.deps.ShopName})
}

// ContactConfirmationEmail thanks the customer for their message.
type ContactConfirmationEmail struct {
	MessageID uint `json:"message_id"`
	deps      *Deps
}

func NewContactConfirmationEmail(d *Deps, messageID uint) *ContactConfirmationEmail {
	return &ContactConfirmationEmail{MessageID: messageID, deps: d}
}

func (j *ContactConfirmationEmail) Name() string { return "mail.contact_confirmation" }

func (j *ContactConfirmationEmail) Handle(ctx context.Context) error {
	msg, err := j.deps.Contacts.GetMessage(ctx, j.MessageID)
	if err != nil {
		return fmt.Errorf("jobs: contact confirmation: %w", err)
	}
	return j.deps.Notifier.Send(ctx, &contactReceipt{msg: msg, shop: j.deps.ShopName})
}

type ownerNotice struct {
	msg   *models.ContactMessage
	owner string
	shop  string
}

func (n *ownerNotice) Via() []string {
	return []string{notification.ChannelMail, notification.ChannelSlack}
}

func (n *ownerNotice) ToMail() (mail.Message, error) {
	data := map[string]any{
		"Name":    n.msg.Name,
		"Email":   n.msg.Email,
		"Subject": n.msg.Subject,
		"Message": n.msg.Message,
		"SentAt":  n.msg.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
	html, text, err := render("contact_owner", data)
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      mail.Address{Name: n.shop, Email: n.owner},
		ReplyTo: mail.Address{Name: n.msg.Name, Email: n.msg.Email},
		Subject: fmt.Sprintf("Nytt meddelande från %s: %s", n.msg.Name, n.msg.Subject),
		HTML:    html,
		Text:    text,
	}, nil
}

func (n *ownerNotice) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Nytt kontaktmeddelande från %s <%s>", n.msg.Name, n.msg.Email),
		Attachments: []notification.SlackAttachment{{
			Title: n.msg.Subject,
			Text:  excerpt(n.msg.Message, 300),
		}},
	}
}

type contactReceipt struct {
	msg  *models.ContactMessage
	shop string
}

func (n *contactReceipt) Via() []string { return []string{notification.ChannelMail} }

func (n *contactReceipt) ToMail() (mail.Message, error) {
	data := map[string]any{
		"Name":    n.msg.Name,
		"Subject": n.msg.Subject,
		"Excerpt": excerpt(n.msg.Message, 150),
		"Shop":    n.shop,
	}
	html, text, err := render("contact_receipt", data)
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      mail.Address{Name: n.msg.Name, Email: n.msg.Email},
		Subject: fmt.Sprintf("Tack för ditt meddelande till %s!", n.shop),
		HTML:    html,
		Text:    text,
	}, nil
}

// excerpt cuts s to at most n runes, marking the cut with "...".
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
