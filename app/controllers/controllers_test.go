package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/controllers"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/routes"
	"github.com/chiquebutik/butik/app/schema"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/auth"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/graphql"
	"github.com/chiquebutik/butik/pkg/middleware"
	"github.com/chiquebutik/butik/pkg/payment"
	"github.com/chiquebutik/butik/pkg/response"
	"github.com/chiquebutik/butik/pkg/router"
	"github.com/chiquebutik/butik/pkg/storage"
	"github.com/chiquebutik/butik/pkg/testkit"
	"github.com/chiquebutik/butik/pkg/ws"
)

const (
	jwtSecret = "controllers-test-secret"
	whsec     = "whsec_controllers_test"
)

// fakeGateway stands in for the payment provider on both the checkout and
// the webhook side. Signatures are verified for real.
type fakeGateway struct {
	*payment.WebhookVerifier
	requests []payment.CheckoutRequest
	items    []payment.LineItem
	listErr  error
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	f.requests = append(f.requests, req)
	return &payment.Session{ID: "cs_test_http", URL: "https://checkout.example/cs_test_http"}, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	if id == "cs_test_http" {
		return &payment.Session{ID: id, Status: "complete", PaymentStatus: "paid", AmountTotal: 49900, Currency: "sek"}, nil
	}
	return nil, &payment.ProviderError{Status: 404, Message: "No such checkout.session"}
}

func (f *fakeGateway) ListLineItems(context.Context, string) ([]payment.LineItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

type harness struct {
	db      *gorm.DB
	handler http.Handler
	gateway *fakeGateway
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db := testkit.DB(t)
	bus := event.NewBus(nil)
	gw := &fakeGateway{WebhookVerifier: payment.NewWebhookVerifier(whsec)}

	products := repositories.NewProductRepository(db)
	cart := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)
	presenter := resources.NewPresenter(storage.NewLocalDisk(t.TempDir(), "http://cdn.test/storage"))
	catalog := services.NewCatalogService(products)

	gqlSchema, err := graphql.NewSchema(schema.Catalog(catalog, presenter))
	require.NoError(t, err)

	verifier, err := auth.NewVerifier("", jwtSecret, "")
	require.NoError(t, err)

	r := router.New()
	r.Use(middleware.Identify(verifier))
	routes.RegisterAPI(r, routes.Handlers{
		Products:  controllers.NewProductController(catalog, presenter),
		Cart:      controllers.NewCartController(services.NewCartService(products, cart, bus), presenter),
		Favorites: controllers.NewFavoriteController(services.NewFavoriteService(products, repositories.NewFavoriteRepository(db)), presenter),
		Orders:    controllers.NewOrderController(services.NewOrderService(orders)),
		Checkout: controllers.NewCheckoutController(services.NewCheckoutService(products, cart, gw, services.CheckoutConfig{
			AppURL:            "https://chiquebutik.se",
			PaymentMethods:    []string{"card"},
			ShippingCountries: []string{"SE"},
		})),
		Webhook: controllers.NewWebhookController(services.NewWebhookService(gw, products, orders, bus)),
		Contact: controllers.NewContactController(services.NewContactService(repositories.NewContactRepository(db), bus)),
		System:  controllers.NewSystemController(db, ws.NewHub(nil)),
		GraphQL: graphql.Handler(gqlSchema),
		Limiter: middleware.NewMemoryLimiter(),
	})

	return harness{db: db, handler: r.Handler(), gateway: gw}
}

func token(t *testing.T, user string) string {
	t.Helper()
	tok, err := auth.IssueToken(jwtSecret, user, user+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

type page[T any] struct {
	Items      []T                 `json:"items"`
	Pagination response.Pagination `json:"pagination"`
}

func TestProductIndexPaginates(t *testing.T) {
	h := newHarness(t)
	testkit.Product(t, h.db, "Sommarklänning", "599.00")
	testkit.Product(t, h.db, "Linneklänning", "799.00")
	testkit.Product(t, h.db, "Sjal", "349.00", testkit.WithCategory("accessoarer"))

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products?limit=2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got page[resources.Product]
	testkit.Decode(t, rec, &got)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 3, got.Pagination.Count)
	assert.Equal(t, 2, got.Pagination.Limit)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products?category=accessoarer"})
	got = page[resources.Product]{}
	testkit.Decode(t, rec, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Sjal", got.Items[0].Title)
	assert.Equal(t, "349.00", got.Items[0].Price)
}

func TestProductShow(t *testing.T) {
	h := newHarness(t)
	p := testkit.Product(t, h.db, "Kofta", "649.00", testkit.WithSizes("S", "M!"))

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products/" + itoa(p.ID)})
	require.Equal(t, http.StatusOK, rec.Code)
	var got resources.Product
	testkit.Decode(t, rec, &got)
	assert.Len(t, got.Sizes, 2)
	require.Len(t, got.Images, 1, "primary image is used as fallback gallery")
	assert.Equal(t, "http://cdn.test/storage/products/Kofta.jpg", got.Images[0].ImageURL)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products/9999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/products/abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", testkit.Decode(t, rec, nil).Error)
}

func TestSearchWithBlankQueryReturnsNothing(t *testing.T) {
	h := newHarness(t)
	testkit.Product(t, h.db, "Sommarklänning", "599.00")

	var got []resources.Product
	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/search?query=%20"})
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.Decode(t, rec, &got)
	assert.Empty(t, got)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/search?query=sommar"})
	testkit.Decode(t, rec, &got)
	assert.Len(t, got, 1)
}

func TestCartRequiresUser(t *testing.T) {
	h := newHarness(t)

	for _, req := range []testkit.Request{
		{Method: http.MethodGet, Path: "/api/cart"},
		{Method: http.MethodPost, Path: "/api/cart", Body: map[string]any{"productId": 1}},
		{Method: http.MethodDelete, Path: "/api/cart/clear"},
		{Method: http.MethodGet, Path: "/api/cart", Token: "not-a-jwt"},
	} {
		rec := testkit.Do(t, h.handler, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.Method+" "+req.Path)
		assert.Equal(t, "unauthorized", testkit.Decode(t, rec, nil).Error)
	}
}

func TestCartLifecycle(t *testing.T) {
	h := newHarness(t)
	tok := token(t, "user-1")
	p := testkit.Product(t, h.db, "Klänning", "299.50", testkit.WithSizes("S", "M"))

	add := func(qty int) resources.CartLine {
		rec := testkit.Do(t, h.handler, testkit.Request{
			Method: http.MethodPost, Path: "/api/cart", Token: tok,
			Body: map[string]any{"productId": p.ID, "quantity": qty, "size": "M"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var out struct {
			CartItem resources.CartLine `json:"cartItem"`
		}
		testkit.Decode(t, rec, &out)
		return out.CartItem
	}
	add(1)
	line := add(2)
	assert.Equal(t, 3, line.Quantity)

	var cart resources.Cart
	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/cart", Token: tok}), &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "898.50", cart.Total)
	assert.Equal(t, 3, cart.ItemCount)

	rec := testkit.Do(t, h.handler, testkit.Request{
		Method: http.MethodPut, Path: "/api/cart", Token: tok,
		Body: map[string]any{"cartItemId": line.ID, "quantity": 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testkit.Do(t, h.handler, testkit.Request{
		Method: http.MethodPut, Path: "/api/cart", Token: tok,
		Body: map[string]any{"cartItemId": line.ID, "quantity": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user cannot touch the line.
	other := token(t, "user-2")
	rec = testkit.Do(t, h.handler, testkit.Request{
		Method: http.MethodPut, Path: "/api/cart", Token: other,
		Body: map[string]any{"cartItemId": line.ID, "quantity": 5},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var deleted map[string]int64
	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{
		Method: http.MethodDelete, Path: "/api/cart?id=" + itoa(line.ID), Token: other,
	}), &deleted)
	assert.Equal(t, int64(0), deleted["deleted"])

	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{
		Method: http.MethodDelete, Path: "/api/cart?id=" + itoa(line.ID), Token: tok,
	}), &deleted)
	assert.Equal(t, int64(1), deleted["deleted"])

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodDelete, Path: "/api/cart/clear", Token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.Decode(t, rec, &deleted)
	assert.Equal(t, int64(0), deleted["deleted"])
}

func TestCartRejectsSoldOutAndBadInput(t *testing.T) {
	h := newHarness(t)
	tok := token(t, "user-1")
	soldOut := testkit.Product(t, h.db, "Blus", "549.00", testkit.WithSizes("S!", "M!"))
	sized := testkit.Product(t, h.db, "Kjol", "449.00", testkit.WithSizes("S", "M!"))

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/cart", Token: tok,
		Body: map[string]any{"productId": soldOut.ID, "size": "S"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "sold_out", testkit.Decode(t, rec, nil).Error)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/cart", Token: tok,
		Body: map[string]any{"productId": sized.ID, "size": "M"}})
	assert.Equal(t, "size_unavailable", testkit.Decode(t, rec, nil).Error)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/cart", Token: tok,
		Body: map[string]any{"quantity": 1}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, testkit.Decode(t, rec, nil).Errors, "productId")

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/cart", Token: tok, Body: "{"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, int64(0), testkit.Count(t, h.db, &models.CartLine{}))
}

func TestFavoriteToggle(t *testing.T) {
	h := newHarness(t)
	tok := token(t, "user-1")
	p := testkit.Product(t, h.db, "Väska", "1295.00")

	toggle := func() map[string]json.RawMessage {
		rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/favorites", Token: tok,
			Body: map[string]any{"productId": p.ID}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out map[string]json.RawMessage
		testkit.Decode(t, rec, &out)
		return out
	}

	first := toggle()
	assert.JSONEq(t, "true", string(first["added"]))
	assert.Contains(t, first, "favorite")

	var favs []resources.Favorite
	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/favorites", Token: tok}), &favs)
	require.Len(t, favs, 1)
	assert.Equal(t, "Väska", favs[0].Product.Title)

	second := toggle()
	assert.JSONEq(t, "true", string(second["removed"]))
	assert.Equal(t, int64(0), testkit.Count(t, h.db, &models.Favorite{}))
}

func TestGuestCheckout(t *testing.T) {
	h := newHarness(t)
	p := testkit.Product(t, h.db, "Klänning", "499.00", testkit.WithStripe("prod_a", "price_a"))

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/checkout", Body: map[string]any{
		"email": "guest@example.com",
		"items": []map[string]any{{"productId": p.ID, "quantity": 2}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res services.CheckoutResult
	testkit.Decode(t, rec, &res)
	assert.Equal(t, "cs_test_http", res.SessionID)
	assert.Equal(t, "https://checkout.example/cs_test_http", res.URL)

	require.Len(t, h.gateway.requests, 1)
	assert.Equal(t, "guest@example.com", h.gateway.requests[0].CustomerEmail)
	assert.Equal(t, int64(2), h.gateway.requests[0].LineItems[0].Quantity)
}

func TestSignedInCheckoutUsesIdentityEmailAndServerCart(t *testing.T) {
	h := newHarness(t)
	tok := token(t, "user-1")
	p := testkit.Product(t, h.db, "Klänning", "499.00", testkit.WithStripe("prod_a", "price_a"))

	// Empty server cart wins over client items.
	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/checkout", Token: tok, Body: map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 1}},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_cart", testkit.Decode(t, rec, nil).Error)
	assert.Empty(t, h.gateway.requests)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/cart", Token: tok,
		Body: map[string]any{"productId": p.ID}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/checkout", Token: tok, Body: map[string]any{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, h.gateway.requests, 1)
	assert.Equal(t, "user-1@example.com", h.gateway.requests[0].CustomerEmail)
	assert.Equal(t, "user-1", h.gateway.requests[0].ClientReferenceID)
}

func TestCheckoutSession(t *testing.T) {
	h := newHarness(t)

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/checkout/session"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/checkout/session?session_id=cs_missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/checkout/session?session_id=cs_test_http"})
	require.Equal(t, http.StatusOK, rec.Code)
	var sess payment.Session
	testkit.Decode(t, rec, &sess)
	assert.Equal(t, "paid", sess.PaymentStatus)
}

func signed(t *testing.T, session map[string]any) ([]byte, string) {
	t.Helper()
	session["object"] = "checkout.session"
	payload, err := json.Marshal(map[string]any{
		"id":     "evt_http",
		"object": "event",
		"type":   payment.EventCheckoutSessionCompleted,
		"data":   map[string]any{"object": session},
	})
	require.NoError(t, err)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: whsec, Timestamp: time.Now()})
	return sp.Payload, sp.Header
}

func TestWebhookThenOrderHistory(t *testing.T) {
	h := newHarness(t)
	testkit.Product(t, h.db, "Klänning", "499.00", testkit.WithStripe("prod_a", "price_a"))
	h.gateway.items = []payment.LineItem{{Description: "Klänning", ProductRef: "prod_a", Quantity: 1, AmountTotal: 49900}}

	body, sig := signed(t, map[string]any{
		"id":                  "cs_http_1",
		"amount_total":        49900,
		"currency":            "sek",
		"customer_email":      "anna@example.com",
		"client_reference_id": "user-1",
	})

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/webhook", Body: body,
		Header: map[string]string{"Stripe-Signature": "t=1,v1=forged"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":400,"message":"Bad Request"}`, rec.Body.String())
	assert.Equal(t, int64(0), testkit.Count(t, h.db, &models.Order{}))

	for i := 0; i < 2; i++ {
		rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/webhook", Body: body,
			Header: map[string]string{"Stripe-Signature": sig}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	}
	assert.Equal(t, int64(1), testkit.Count(t, h.db, &models.Order{}))

	var got page[resources.Order]
	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/orders", Token: token(t, "user-1")}), &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "499.00", got.Items[0].TotalAmount)
	require.Len(t, got.Items[0].Items, 1)

	testkit.Decode(t, testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/orders", Token: token(t, "user-2")}), &got)
	assert.Empty(t, got.Items)
}

func TestContactForm(t *testing.T) {
	h := newHarness(t)

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/contact", Body: map[string]any{
		"name": "Anna", "email": "anna@example.com", "subject": "Storlek", "message": "Finns M?",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := testkit.Decode(t, rec, nil)
	assert.Equal(t, "Tack för ditt meddelande! Vi återkommer så snart som möjligt.", env.Message)

	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/contact", Body: map[string]any{
		"name": "Anna", "email": "anna@example.com", "subject": " ", "message": "Hej",
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Alla fält är obligatoriska", testkit.Decode(t, rec, nil).Message)

	assert.Equal(t, int64(1), testkit.Count(t, h.db, &models.ContactMessage{}))
}

func TestContactIsRateLimited(t *testing.T) {
	h := newHarness(t)
	req := testkit.Request{Method: http.MethodPost, Path: "/api/contact", Body: map[string]any{}}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, testkit.Do(t, h.handler, req).Code)
	}
	rec := testkit.Do(t, h.handler, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestContactInfo(t *testing.T) {
	h := newHarness(t)

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/contact/info"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, h.db.Create(&models.ContactInfo{Company: "ChiqueButik AB", Phone: "040-12 34 56"}).Error)
	rec = testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/api/contact/info"})
	require.Equal(t, http.StatusOK, rec.Code)
	var info models.ContactInfo
	testkit.Decode(t, rec, &info)
	assert.Equal(t, "ChiqueButik AB", info.Company)
}

func TestGraphQLCatalog(t *testing.T) {
	h := newHarness(t)
	testkit.Product(t, h.db, "Sommarklänning", "599.00", testkit.WithSizes("S", "M!"))

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/graphql", Body: map[string]any{
		"query": `{ products(limit: 5) { title price soldOut sizes { size inStock } } categories }`,
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Products []struct {
				Title   string
				Price   string
				SoldOut bool
				Sizes   []struct {
					Size    string
					InStock bool
				}
			}
			Categories []string
		}
		Errors []any
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Errors)
	require.Len(t, out.Data.Products, 1)
	assert.Equal(t, "599.00", out.Data.Products[0].Price)
	assert.False(t, out.Data.Products[0].SoldOut)
	assert.Len(t, out.Data.Products[0].Sizes, 2)
	assert.Equal(t, []string{"klänningar"}, out.Data.Categories)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, rec.Body.String())
}

func TestWebsocketRequiresUser(t *testing.T) {
	h := newHarness(t)
	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodGet, Path: "/ws/cart"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestWebhookFailuresCarryOnlyStatus(t *testing.T) {
	h := newHarness(t)
	h.gateway.listErr = &payment.ProviderError{Status: 500, Message: "line items unavailable for cs_http_2"}
	body, sig := signed(t, map[string]any{"id": "cs_http_2", "amount_total": 100, "currency": "sek"})

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/webhook", Body: body,
		Header: map[string]string{"Stripe-Signature": sig}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"status":502,"message":"Bad Gateway"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "cs_http_2")
	assert.Equal(t, int64(0), testkit.Count(t, h.db, &models.Order{}))
}

func TestWebhookOversizedBodyIsRetryable(t *testing.T) {
	h := newHarness(t)
	body := make([]byte, 300<<10)
	for i := range body {
		body[i] = ' '
	}

	rec := testkit.Do(t, h.handler, testkit.Request{Method: http.MethodPost, Path: "/api/webhook", Body: body,
		Header: map[string]string{"Stripe-Signature": "t=1,v1=x"}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, int64(0), testkit.Count(t, h.db, &models.Order{}))
}
