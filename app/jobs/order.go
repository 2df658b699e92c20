package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/mail"
	"github.com/chiquebutik/butik/pkg/notification"
)

// OrderConfirmationEmail sends the buyer a receipt and alerts the owner.
type OrderConfirmationEmail struct {
	OrderID uint `json:"order_id"`
	deps    *Deps
}

func NewOrderConfirmationEmail(d *Deps, orderID uint) *OrderConfirmationEmail {
	return &OrderConfirmationEmail{OrderID: orderID, deps: d}
}

func (j *OrderConfirmationEmail) Name() string { return "mail.order_confirmation" }

func (j *OrderConfirmationEmail) Handle(ctx context.Context) error {
	order, err := j.deps.Orders.Get(ctx, j.OrderID)
	if err != nil {
		return fmt.Errorf("jobs: order confirmation: %w", err)
	}

	if order.Email == "" {
		logger.WithCtx(ctx).Warn("jobs: order has no email, receipt skipped", "order_id", order.ID)
	} else if err := j.deps.Notifier.Send(ctx, &orderReceipt{order: order, shop: j.deps.ShopName, appURL: j.deps.AppURL}); err != nil {
		return err
	}
	return j.deps.Notifier.Send(ctx, &orderAlert{order: order})
}

type orderReceipt struct {
	order  *models.Order
	shop   string
	appURL string
}

func (n *orderReceipt) Via() []string { return []string{notification.ChannelMail} }

type receiptLine struct {
	Description string
	Quantity    int
	Price       string
	LineTotal   string
}

func (n *orderReceipt) ToMail() (mail.Message, error) {
	lines := make([]receiptLine, 0, len(n.order.Items))
	for _, it := range n.order.Items {
		lines = append(lines, receiptLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       money(it.Price, n.order.Currency),
			LineTotal:   money(it.LineTotal, n.order.Currency),
		})
	}
	data := map[string]any{
		"OrderID": n.order.ID,
		"Lines":   lines,
		"Total":   money(n.order.TotalAmount, n.order.Currency),
		"Shop":    n.shop,
		"AppURL":  n.appURL,
	}
	html, text, err := render("order_receipt", data)
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      mail.Address{Email: n.order.Email},
		Subject: fmt.Sprintf("Orderbekräftelse #%d från %s", n.order.ID, n.shop),
		HTML:    html,
		Text:    text,
	}, nil
}

// orderAlert pings the owner's chat channel about a paid order.
type orderAlert struct {
	order *models.Order
}

func (n *orderAlert) Via() []string { return []string{notification.ChannelSlack} }

func (n *orderAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Ny order #%d: %s", n.order.ID, money(n.order.TotalAmount, n.order.Currency)),
		Attachments: []notification.SlackAttachment{{
			Color:  "good",
			Text:   fmt.Sprintf("%d artiklar, %s", len(n.order.Items), n.order.Email),
			Footer: n.order.StripeSession,
		}},
	}
}

func money(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "sek"
	}
	return d.StringFixed(2) + " " + strings.ToUpper(currency)
}
