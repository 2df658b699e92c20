package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Stripe talks to the Stripe API with a per-instance key and backend.
type Stripe struct {
	sessions session.Client
	verifier *WebhookVerifier
}

// NewStripe uses the default API backend.
func NewStripe(secretKey, webhookSecret string) *Stripe {
	return NewStripeWithBackend(secretKey, webhookSecret, stripe.GetBackend(stripe.APIBackend))
}

func NewStripeWithBackend(secretKey, webhookSecret string, backend stripe.Backend) *Stripe {
	return &Stripe{
		sessions: session.Client{B: backend, Key: secretKey},
		verifier: NewWebhookVerifier(webhookSecret),
	}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(li.PriceRef),
			Quantity: stripe.Int64(li.Quantity),
			AdjustableQuantity: &stripe.CheckoutSessionLineItemAdjustableQuantityParams{
				Enabled: stripe.Bool(false),
			},
		})
	}
	if len(req.PaymentMethodTypes) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(req.PaymentMethodTypes)
	}
	if len(req.ShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.ShippingCountries),
		}
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if req.ClientReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ClientReferenceID)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cs, err := s.sessions.New(params)
	if err != nil {
		return nil, providerError(err)
	}
	return toSession(cs), nil
}

// RetrieveSession fetches a session with line items, customer and the
// payment method expanded.
func (s *Stripe) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("customer")
	params.AddExpand("payment_intent.payment_method")

	cs, err := s.sessions.Get(id, params)
	if err != nil {
		return nil, providerError(err)
	}
	return toSession(cs), nil
}

// ListLineItems pages through every line item of a session.
func (s *Stripe) ListLineItems(ctx context.Context, id string) ([]LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{Session: stripe.String(id)}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var out []LineItem
	it := s.sessions.ListLineItems(params)
	for it.Next() {
		out = append(out, toLineItem(it.LineItem()))
	}
	if err := it.Err(); err != nil {
		return nil, providerError(err)
	}
	return out, nil
}

func (s *Stripe) VerifyEvent(payload []byte, header string) (*Event, error) {
	return s.verifier.VerifyEvent(payload, header)
}

// WebhookVerifier checks Stripe-Signature headers without needing an API key.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// VerifyEvent authenticates payload before decoding any of it. An empty
// secret rejects every event.
func (v *WebhookVerifier) VerifyEvent(payload []byte, header string) (*Event, error) {
	if v.secret == "" || strings.TrimSpace(header) == "" {
		return nil, ErrInvalidSignature
	}

	ev, err := webhook.ConstructEventWithOptions(payload, header, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if strings.HasPrefix(out.Type, "checkout.session.") && ev.Data != nil {
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("payment: decode session: %w", err)
		}
		out.Session = toSession(&cs)
	}
	return out, nil
}

func providerError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &ProviderError{Status: se.HTTPStatusCode, Code: string(se.Code), Message: se.Msg}
	}
	return &ProviderError{Message: err.Error()}
}

func toSession(cs *stripe.CheckoutSession) *Session {
	s := &Session{
		ID:                cs.ID,
		URL:               cs.URL,
		Status:            string(cs.Status),
		PaymentStatus:     string(cs.PaymentStatus),
		Currency:          string(cs.Currency),
		AmountTotal:       cs.AmountTotal,
		CustomerEmail:     cs.CustomerEmail,
		ClientReferenceID: cs.ClientReferenceID,
		Metadata:          cs.Metadata,
	}
	if cs.CustomerDetails != nil {
		if s.CustomerEmail == "" {
			s.CustomerEmail = cs.CustomerDetails.Email
		}
		s.CustomerName = cs.CustomerDetails.Name
	}
	if s.CustomerEmail == "" && cs.Customer != nil {
		s.CustomerEmail = cs.Customer.Email
	}
	if cs.LineItems != nil {
		for _, li := range cs.LineItems.Data {
			s.LineItems = append(s.LineItems, toLineItem(li))
		}
	}
	if cs.PaymentIntent != nil && cs.PaymentIntent.PaymentMethod != nil {
		pm := cs.PaymentIntent.PaymentMethod
		s.PaymentMethod = &PaymentMethod{Type: string(pm.Type)}
		if pm.Card != nil {
			s.PaymentMethod.Brand = string(pm.Card.Brand)
			s.PaymentMethod.Last4 = pm.Card.Last4
		}
	}
	return s
}

func toLineItem(li *stripe.LineItem) LineItem {
	out := LineItem{
		Description: li.Description,
		Quantity:    li.Quantity,
		AmountTotal: li.AmountTotal,
		Currency:    string(li.Currency),
	}
	if li.Price != nil {
		out.PriceRef = li.Price.ID
		out.UnitAmount = li.Price.UnitAmount
		if li.Price.Product != nil {
			out.ProductRef = li.Price.Product.ID
		}
	}
	return out
}
