package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/metrics"
	"github.com/chiquebutik/butik/pkg/payment"
)

// maxMetadataValue is the provider's limit on a single metadata value.
const maxMetadataValue = 500

// CheckoutGateway creates and reads hosted checkout sessions.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.Session, error)
	RetrieveSession(ctx context.Context, id string) (*payment.Session, error)
}

// CheckoutItem is a guest's client-side cart line.
type CheckoutItem struct {
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size"`
}

// BuildInput is a checkout request. Items are ignored for signed-in users,
// whose server-side cart is used instead.
type BuildInput struct {
	UserID string
	Email  string
	Items  []CheckoutItem
}

type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CheckoutConfig struct {
	AppURL            string
	PaymentMethods    []string
	ShippingCountries []string
}

type checkoutLine struct {
	product  models.Product
	quantity int
	size     *string
}

type CheckoutService struct {
	products *repositories.ProductRepository
	cart     *repositories.CartRepository
	gateway  CheckoutGateway
	cfg      CheckoutConfig
}

func NewCheckoutService(products *repositories.ProductRepository, cart *repositories.CartRepository, gateway CheckoutGateway, cfg CheckoutConfig) *CheckoutService {
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &CheckoutService{products: products, cart: cart, gateway: gateway, cfg: cfg}
}

// Build validates the cart against the catalog and opens a hosted checkout
// session. Nothing is sent to the provider unless every line is payable.
func (s *CheckoutService) Build(ctx context.Context, in BuildInput) (res *CheckoutResult, err error) {
	defer func() {
		outcome := "created"
		if err != nil {
			outcome = string(errs.KindOf(err))
		}
		metrics.CheckoutSessions.WithLabelValues(outcome).Inc()
	}()

	lines, err := s.linesFor(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errs.E(errs.EmptyCart, "Varukorgen är tom")
	}
	for i := range lines {
		if lines[i].product.PriceRef() == "" {
			return nil, errs.E(errs.Configuration, "Produkten %q (id %d) saknar pris hos betalleverantören",
				lines[i].product.Title, lines[i].product.ID)
		}
	}
	for i := range lines {
		if err := checkStock(&lines[i].product, lines[i].size); err != nil {
			return nil, err
		}
	}
	if s.gateway == nil {
		return nil, errs.E(errs.Configuration, "Betalningar är inte konfigurerade")
	}

	req := payment.CheckoutRequest{
		SuccessURL:         s.cfg.AppURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          s.cfg.AppURL + "/checkout/cancel",
		CustomerEmail:      strings.TrimSpace(in.Email),
		ClientReferenceID:  in.UserID,
		PaymentMethodTypes: s.cfg.PaymentMethods,
		ShippingCountries:  s.cfg.ShippingCountries,
		Metadata: map[string]string{
			"user_id":    in.UserID,
			"email":      strings.TrimSpace(in.Email),
			"cart_items": cartItemsMetadata(lines),
		},
	}
	for _, l := range lines {
		req.LineItems = append(req.LineItems, payment.LineItemInput{
			PriceRef: l.product.PriceRef(),
			Quantity: int64(l.quantity),
		})
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		logger.WithCtx(ctx).Error("checkout: create session failed", "error", err)
		return nil, errs.Wrap(errs.PaymentProvider, err, "%s", providerMessage(err))
	}
	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

// Retrieve returns the expanded session for the success page.
func (s *CheckoutService) Retrieve(ctx context.Context, sessionID string) (*payment.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errs.E(errs.InvalidArgument, "session_id is required")
	}
	if s.gateway == nil {
		return nil, errs.E(errs.Configuration, "Betalningar är inte konfigurerade")
	}

	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if errors.Is(err, payment.ErrNotFound) {
		return nil, errs.Wrap(errs.NotFound, err, "Sessionen hittades inte")
	}
	if err != nil {
		return nil, errs.Wrap(errs.PaymentProvider, err, "%s", providerMessage(err))
	}
	return sess, nil
}

func (s *CheckoutService) linesFor(ctx context.Context, in BuildInput) ([]checkoutLine, error) {
	if in.UserID != "" {
		rows, err := s.cart.List(ctx, in.UserID)
		if err != nil {
			return nil, errs.Wrap(errs.Internal, err, "could not load cart")
		}
		lines := make([]checkoutLine, 0, len(rows))
		for _, r := range rows {
			lines = append(lines, checkoutLine{product: r.Product, quantity: r.Quantity, size: r.Size})
		}
		return lines, nil
	}

	if len(in.Items) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return nil, errs.E(errs.InvalidArgument, "productId is required")
		}
		if it.Quantity < 1 {
			return nil, errs.E(errs.InvalidArgument, "Quantity must be at least 1")
		}
		ids = append(ids, it.ProductID)
	}
	found, err := s.products.FindMany(ctx, ids)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not load products")
	}

	lines := make([]checkoutLine, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := found[it.ProductID]
		if !ok {
			return nil, errs.E(errs.NotFound, "Produkten hittades inte")
		}
		lines = append(lines, checkoutLine{product: p, quantity: it.Quantity, size: normalizeSize(it.Size)})
	}
	return lines, nil
}

// cartItemsMetadata renders "id:qty,id:qty", dropping whole pairs once the
// provider's value limit would be exceeded.
func cartItemsMetadata(lines []checkoutLine) string {
	var b strings.Builder
	for _, l := range lines {
		pair := fmt.Sprintf("%d:%d", l.product.ID, l.quantity)
		if b.Len() > 0 {
			pair = "," + pair
		}
		if b.Len()+len(pair) > maxMetadataValue {
			break
		}
		b.WriteString(pair)
	}
	return b.String()
}

func providerMessage(err error) string {
	var pe *payment.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return "Betalleverantören svarade inte"
}
