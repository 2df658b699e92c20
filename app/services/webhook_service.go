package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/events"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/collection"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/metrics"
	"github.com/chiquebutik/butik/pkg/orm"
	"github.com/chiquebutik/butik/pkg/payment"
)

// WebhookGateway verifies provider events and lists session line items.
type WebhookGateway interface {
	VerifyEvent(payload []byte, signature string) (*payment.Event, error)
	ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItem, error)
}

type WebhookOutcome string

const (
	WebhookMaterialized WebhookOutcome = "materialized"
	WebhookDuplicate    WebhookOutcome = "duplicate"
	WebhookIgnored      WebhookOutcome = "ignored"
)

type WebhookService struct {
	gateway  WebhookGateway
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	events   *event.Bus
}

func NewWebhookService(gateway WebhookGateway, products *repositories.ProductRepository, orders *repositories.OrderRepository, bus *event.Bus) *WebhookService {
	return &WebhookService{gateway: gateway, products: products, orders: orders, events: bus}
}

// Handle verifies and applies one webhook delivery. Redelivery of a
// completed session is reported as WebhookDuplicate, never as an error.
func (s *WebhookService) Handle(ctx context.Context, payload []byte, signature string) (outcome WebhookOutcome, err error) {
	eventType := "unknown"
	defer func() {
		label := string(outcome)
		switch {
		case errs.Is(err, errs.InvalidSig):
			label = "rejected"
		case err != nil:
			label = "failed"
		}
		metrics.WebhookEvents.WithLabelValues(eventType, label).Inc()
	}()

	if s.gateway == nil {
		return "", errs.E(errs.Configuration, "webhook secret is not configured")
	}
	ev, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return "", errs.Wrap(errs.InvalidSig, err, "Invalid signature")
	}
	eventType = ev.Type

	if ev.Type != payment.EventCheckoutSessionCompleted {
		return WebhookIgnored, nil
	}
	if ev.Session == nil || ev.Session.ID == "" {
		return "", errs.E(errs.InvalidArgument, "event %s has no checkout session", ev.ID)
	}
	return s.materialize(ctx, ev.Session)
}

func (s *WebhookService) materialize(ctx context.Context, sess *payment.Session) (WebhookOutcome, error) {
	log := logger.WithCtx(ctx).With("session", sess.ID)

	exists, err := s.orders.ExistsBySession(ctx, sess.ID)
	if err != nil {
		return "", errs.Wrap(errs.Internal, err, "could not check order")
	}
	if exists {
		log.Info("webhook: order already recorded")
		return WebhookDuplicate, nil
	}

	items, err := s.gateway.ListLineItems(ctx, sess.ID)
	if err != nil {
		return "", errs.Wrap(errs.PaymentProvider, err, "%s", providerMessage(err))
	}

	refs := collection.Unique(collection.Filter(
		collection.Map(items, func(li payment.LineItem) string { return li.ProductRef }),
		func(ref string) bool { return ref != "" },
	))
	ids, err := s.products.ProductIDsByProviderRef(ctx, refs)
	if err != nil {
		return "", errs.Wrap(errs.Internal, err, "could not resolve products")
	}

	order := buildOrder(sess, items, ids)
	if err := s.orders.Create(ctx, order); err != nil {
		if orm.IsDuplicate(err) {
			log.Info("webhook: concurrent delivery already recorded the order")
			return WebhookDuplicate, nil
		}
		return "", errs.Wrap(errs.Internal, err, "could not record order")
	}
	log.Info("webhook: order recorded", "order_id", order.ID, "items", len(order.Items))

	s.events.FireAsync(ctx, events.OrderPaid, events.OrderPaidPayload{
		OrderID: order.ID,
		UserID:  deref(order.UserID),
		Email:   order.Email,
		Total:   order.TotalAmount,
	})
	return WebhookMaterialized, nil
}

func buildOrder(sess *payment.Session, items []payment.LineItem, ids map[string]uint) *models.Order {
	order := &models.Order{
		UserID:        sessionUserID(sess),
		StripeSession: sess.ID,
		TotalAmount:   decimal.New(sess.AmountTotal, -2),
		Currency:      strings.ToLower(sess.Currency),
		Status:        models.OrderStatusPaid,
		Email:         sess.CustomerEmail,
	}
	if order.Currency == "" {
		order.Currency = "sek"
	}
	if order.Email == "" {
		order.Email = sess.Metadata["email"]
	}

	for _, li := range items {
		qty := li.Quantity
		if qty < 1 {
			qty = 1
		}
		total := decimal.New(li.AmountTotal, -2)
		item := models.OrderItem{
			ProductRef:  li.ProductRef,
			Description: li.Description,
			Quantity:    int(qty),
			Price:       total.Div(decimal.NewFromInt(qty)).Round(2),
			LineTotal:   total,
		}
		if id, ok := ids[li.ProductRef]; ok {
			item.ProductID = &id
		}
		order.Items = append(order.Items, item)
	}
	return order
}

func sessionUserID(sess *payment.Session) *string {
	id := strings.TrimSpace(sess.ClientReferenceID)
	if id == "" {
		id = strings.TrimSpace(sess.Metadata["user_id"])
	}
	if id == "" {
		return nil
	}
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

