// Package routes declares every named route of the storefront.
package routes

import (
	"net/http"
	"time"

	"github.com/chiquebutik/butik/app/controllers"
	"github.com/chiquebutik/butik/pkg/metrics"
	"github.com/chiquebutik/butik/pkg/middleware"
	"github.com/chiquebutik/butik/pkg/router"
)

// Handlers bundles the controllers the routes dispatch to.
type Handlers struct {
	Products  *controllers.ProductController
	Cart      *controllers.CartController
	Favorites *controllers.FavoriteController
	Orders    *controllers.OrderController
	Checkout  *controllers.CheckoutController
	Webhook   *controllers.WebhookController
	Contact   *controllers.ContactController
	System    *controllers.SystemController
	GraphQL   http.HandlerFunc
	Limiter   middleware.Limiter
}

// Limits per client IP.
const (
	checkoutLimit = 10
	contactLimit  = 5
	limitWindow   = time.Minute
)

func RegisterAPI(r *router.Router, h Handlers) {
	r.Get("/healthz", "health", h.System.Health)
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/ws/cart", "ws.cart", h.System.Cart, middleware.RequireUser)

	api := r.Group("/api")

	api.Get("/products", "products.index", h.Products.Index)
	api.Get("/products/{id}", "products.show", h.Products.Show)
	api.Get("/search", "products.search", h.Products.Search)

	user := api.Group("", middleware.RequireUser)
	user.Get("/cart", "cart.index", h.Cart.Index)
	user.Post("/cart", "cart.store", h.Cart.Store)
	user.Put("/cart", "cart.update", h.Cart.Update)
	user.Delete("/cart", "cart.destroy", h.Cart.Destroy)
	user.Delete("/cart/clear", "cart.clear", h.Cart.Clear)

	user.Get("/favorites", "favorites.index", h.Favorites.Index)
	user.Post("/favorites", "favorites.toggle", h.Favorites.Toggle)

	user.Get("/orders", "orders.index", h.Orders.Index)

	api.Post("/checkout", "checkout.store", h.Checkout.Store,
		middleware.RateLimit(h.Limiter, "checkout", checkoutLimit, limitWindow))
	api.Get("/checkout/session", "checkout.session", h.Checkout.Session)
	api.Post("/webhook", "webhook.stripe", h.Webhook.Stripe)

	api.Post("/contact", "contact.store", h.Contact.Store,
		middleware.RateLimit(h.Limiter, "contact", contactLimit, limitWindow))
	api.Get("/contact/info", "contact.info", h.Contact.Info)

	graphql := h.GraphQL
	if graphql == nil {
		graphql = http.NotFound
	}
	api.Post("/graphql", "graphql", graphql)
}
