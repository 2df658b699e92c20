package kernel_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/internal/kernel"
	"github.com/chiquebutik/butik/pkg/testkit"
)

func boot(t *testing.T) (*kernel.Kernel, string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("STORAGE_LOCAL_ROOT", root)
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	config.Reset()
	t.Cleanup(config.Reset)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	k, err := kernel.New(ctx, testkit.DB(t))
	require.NoError(t, err)
	t.Cleanup(k.Close)
	return k, root
}

func TestKernelServesSystemRoutes(t *testing.T) {
	k, _ := boot(t)
	h := k.Handler()

	rec := testkit.Do(t, h, testkit.Request{Method: http.MethodGet, Path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = testkit.Do(t, h, testkit.Request{Method: http.MethodGet, Path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = testkit.Do(t, h, testkit.Request{Method: http.MethodGet, Path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", testkit.Decode(t, rec, nil).Error)
}

func TestKernelWithoutProviderKeys(t *testing.T) {
	k, _ := boot(t)
	h := k.Handler()
	p := testkit.Product(t, k.DB, "Klänning", "499.00", testkit.WithStripe("prod_a", "price_a"))

	// No identity key: every caller is anonymous.
	rec := testkit.Do(t, h, testkit.Request{Method: http.MethodGet, Path: "/api/cart", Token: "anything"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, h, testkit.Request{Method: http.MethodPost, Path: "/api/checkout", Body: map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 1}},
	}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "configuration_error", testkit.Decode(t, rec, nil).Error)

	rec = testkit.Do(t, h, testkit.Request{Method: http.MethodPost, Path: "/api/webhook", Body: "{}",
		Header: map[string]string{"Stripe-Signature": "t=1,v1=x"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestKernelServesLocalImages(t *testing.T) {
	k, root := boot(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "a.jpg"), []byte("jpeg"), 0o644))

	rec := testkit.Do(t, k.Handler(), testkit.Request{Method: http.MethodGet, Path: "/storage/products/a.jpg"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())
}

func TestRoutesListsEveryNamedRoute(t *testing.T) {
	names := map[string]bool{}
	for _, ri := range kernel.Routes() {
		names[ri.Name] = true
	}
	for _, want := range []string{
		"products.index", "products.show", "products.search",
		"cart.index", "cart.store", "cart.update", "cart.destroy", "cart.clear",
		"favorites.index", "favorites.toggle", "orders.index",
		"checkout.store", "checkout.session", "webhook.stripe",
		"contact.store", "contact.info", "graphql", "ws.cart", "metrics", "health",
	} {
		assert.True(t, names[want], want)
	}
}
