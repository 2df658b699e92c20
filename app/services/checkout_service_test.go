package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/payment"
	"github.com/chiquebutik/butik/pkg/testkit"
)

type fakeCheckout struct {
	requests []payment.CheckoutRequest
	err      error
	sessions map[string]*payment.Session
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (f *fakeCheckout) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, &payment.ProviderError{Status: 404, Code: "resource_missing", Message: "No such checkout.session: " + id}
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     *services.CheckoutService
	cart    *services.CartService
	gateway *fakeCheckout
}

func newCheckout(t *testing.T) checkoutFixture {
	t.Helper()
	db := testkit.DB(t)
	products := repositories.NewProductRepository(db)
	cart := repositories.NewCartRepository(db)
	gw := &fakeCheckout{}
	return checkoutFixture{
		db: db,
		svc: services.NewCheckoutService(products, cart, gw, services.CheckoutConfig{
			AppURL:            "https://chiquebutik.se/",
			PaymentMethods:    []string{"card", "klarna"},
			ShippingCountries: []string{"SE"},
		}),
		cart:    services.NewCartService(products, cart, event.NewBus(nil)),
		gateway: gw,
	}
}

func TestCheckoutUsesServerCartForSignedInUser(t *testing.T) {
	f := newCheckout(t)
	ctx := context.Background()
	a := testkit.Product(t, f.db, "Klänning", "499.00", testkit.WithStripe("prod_a", "price_a"), testkit.WithSizes("S"))
	b := testkit.Product(t, f.db, "Scarf", "149.00", testkit.WithStripe("prod_b", "price_b"))

	_, err := f.cart.Add(ctx, "user-1", services.AddToCartInput{ProductID: a.ID, Quantity: 2, Size: strp("S")})
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "user-1", services.AddToCartInput{ProductID: b.ID})
	require.NoError(t, err)

	res, err := f.svc.Build(ctx, services.BuildInput{
		UserID: "user-1",
		Email:  "anna@example.com",
		// Client lines are ignored once the caller is signed in.
		Items: []services.CheckoutItem{{ProductID: b.ID, Quantity: 50}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.SessionID)
	assert.Equal(t, "https://checkout.example/cs_test_1", res.URL)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, []payment.LineItemInput{{PriceRef: "price_a", Quantity: 2}, {PriceRef: "price_b", Quantity: 1}}, req.LineItems)
	assert.Equal(t, "https://chiquebutik.se/checkout/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://chiquebutik.se/checkout/cancel", req.CancelURL)
	assert.Equal(t, "user-1", req.ClientReferenceID)
	assert.Equal(t, "anna@example.com", req.CustomerEmail)
	assert.Equal(t, "user-1", req.Metadata["user_id"])
	assert.Equal(t, "anna@example.com", req.Metadata["email"])
	assert.Equal(t, strings.Join([]string{itoa(a.ID) + ":2", itoa(b.ID) + ":1"}, ","), req.Metadata["cart_items"])
	assert.Equal(t, []string{"card", "klarna"}, req.PaymentMethodTypes)
	assert.Equal(t, []string{"SE"}, req.ShippingCountries)
}

func TestCheckoutGuestItems(t *testing.T) {
	f := newCheckout(t)
	ctx := context.Background()
	p := testkit.Product(t, f.db, "Blus", "299.00", testkit.WithStripe("prod_p", "price_p"), testkit.WithSizes("S", "M!"))

	_, err := f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: p.ID, Quantity: 3, Size: strp("S")}}})
	require.NoError(t, err)
	require.Len(t, f.gateway.requests, 1)
	assert.Equal(t, int64(3), f.gateway.requests[0].LineItems[0].Quantity)
	assert.Empty(t, f.gateway.requests[0].ClientReferenceID)

	_, err = f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: p.ID, Quantity: 1, Size: strp("M")}}})
	assert.Equal(t, errs.SizeUnavailable, errs.KindOf(err))

	_, err = f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: 9999, Quantity: 1}}})
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, err = f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: p.ID, Quantity: 0}}})
	assert.Equal(t, errs.InvalidArgument, errs.KindOf(err))

	assert.Len(t, f.gateway.requests, 1)
}

func TestCheckoutRejectsBeforeCallingProvider(t *testing.T) {
	f := newCheckout(t)
	ctx := context.Background()
	unpriced := testkit.Product(t, f.db, "Prov", "10.00")
	soldOut := testkit.Product(t, f.db, "Kjol", "399.00", testkit.WithStripe("prod_k", "price_k"), testkit.WithSizes("S!"))

	_, err := f.svc.Build(ctx, services.BuildInput{})
	assert.Equal(t, errs.EmptyCart, errs.KindOf(err))

	_, err = f.svc.Build(ctx, services.BuildInput{UserID: "user-empty"})
	assert.Equal(t, errs.EmptyCart, errs.KindOf(err))

	_, err = f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: unpriced.ID, Quantity: 1}}})
	assert.Equal(t, errs.Configuration, errs.KindOf(err))
	assert.Contains(t, errs.MessageOf(err), "Prov")

	_, err = f.svc.Build(ctx, services.BuildInput{Items: []services.CheckoutItem{{ProductID: soldOut.ID, Quantity: 1}}})
	assert.Equal(t, errs.SoldOut, errs.KindOf(err))

	assert.Empty(t, f.gateway.requests)
}

func TestCheckoutProviderFailureCarriesMessage(t *testing.T) {
	f := newCheckout(t)
	f.gateway.err = &payment.ProviderError{Status: 400, Code: "resource_missing", Message: "No such price: 'price_gone'"}
	p := testkit.Product(t, f.db, "Scarf", "149.00", testkit.WithStripe("prod_s", "price_gone"))

	_, err := f.svc.Build(context.Background(), services.BuildInput{Items: []services.CheckoutItem{{ProductID: p.ID, Quantity: 1}}})
	assert.Equal(t, errs.PaymentProvider, errs.KindOf(err))
	assert.Equal(t, "No such price: 'price_gone'", errs.MessageOf(err))
}

func TestCheckoutMetadataStaysWithinProviderLimit(t *testing.T) {
	f := newCheckout(t)
	p := testkit.Product(t, f.db, "Strumpor", "49.00", testkit.WithStripe("prod_x", "price_x"))

	items := make([]services.CheckoutItem, 200)
	for i := range items {
		items[i] = services.CheckoutItem{ProductID: p.ID, Quantity: 99}
	}
	_, err := f.svc.Build(context.Background(), services.BuildInput{Items: items})
	require.NoError(t, err)

	meta := f.gateway.requests[0].Metadata["cart_items"]
	assert.LessOrEqual(t, len(meta), 500)
	assert.False(t, strings.HasSuffix(meta, ","))
	for _, pair := range strings.Split(meta, ",") {
		assert.Equal(t, itoa(p.ID)+":99", pair)
	}
	assert.Len(t, f.gateway.requests[0].LineItems, 200)
}

func TestCheckoutRetrieve(t *testing.T) {
	f := newCheckout(t)
	ctx := context.Background()
	f.gateway.sessions = map[string]*payment.Session{
		"cs_paid": {ID: "cs_paid", PaymentStatus: "paid", AmountTotal: 59800, Currency: "sek"},
	}

	sess, err := f.svc.Retrieve(ctx, " cs_paid ")
	require.NoError(t, err)
	assert.Equal(t, int64(59800), sess.AmountTotal)

	_, err = f.svc.Retrieve(ctx, "")
	assert.Equal(t, errs.InvalidArgument, errs.KindOf(err))

	_, err = f.svc.Retrieve(ctx, "cs_missing")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}
