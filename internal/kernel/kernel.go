// Package kernel is the composition root: it turns configuration into a
// fully wired storefront (stores, providers, services, listeners, router).
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/controllers"
	"github.com/chiquebutik/butik/app/jobs"
	"github.com/chiquebutik/butik/app/listeners"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/routes"
	"github.com/chiquebutik/butik/app/schema"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/config"
	"github.com/chiquebutik/butik/pkg/auth"
	"github.com/chiquebutik/butik/pkg/cache"
	"github.com/chiquebutik/butik/pkg/database"
	"github.com/chiquebutik/butik/pkg/event"
	"github.com/chiquebutik/butik/pkg/graphql"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/mail"
	"github.com/chiquebutik/butik/pkg/metrics"
	"github.com/chiquebutik/butik/pkg/middleware"
	"github.com/chiquebutik/butik/pkg/notification"
	"github.com/chiquebutik/butik/pkg/payment"
	"github.com/chiquebutik/butik/pkg/queue"
	"github.com/chiquebutik/butik/pkg/reqid"
	"github.com/chiquebutik/butik/pkg/response"
	"github.com/chiquebutik/butik/pkg/router"
	"github.com/chiquebutik/butik/pkg/storage"
	"github.com/chiquebutik/butik/pkg/workerpool"
	"github.com/chiquebutik/butik/pkg/ws"
)

// Kernel owns every long-lived dependency of the process.
type Kernel struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Queue  *queue.Manager
	Bus    *event.Bus
	Hub    *ws.Hub
	Router *router.Router

	pool    *workerpool.Pool
	limiter middleware.Limiter
}

// Boot loads config, connects the database and wires the application.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("kernel: config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	return New(ctx, database.DB)
}

// New wires the application around an open database.
func New(ctx context.Context, db *gorm.DB) (*Kernel, error) {
	k := &Kernel{DB: db}

	if config.QueueDriver() == "redis" || config.RateLimitDriver() == "redis" {
		rdb, err := cache.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("kernel: %w", err)
		}
		k.Redis = rdb
	}

	k.Queue = newQueue(db, k.Redis)
	k.limiter = newLimiter(ctx, k.Redis)

	k.pool = workerpool.New(config.Int("EVENT_WORKERS", 8))
	k.Bus = event.NewBus(k.pool)
	k.Hub = ws.NewHub(checkOrigin(config.CORSOrigins()))

	mailer, err := mail.New()
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	disk, err := storage.New(ctx, config.StorageDefault())
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	verifier, err := newVerifier()
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	products := repositories.NewProductRepository(db)
	cart := repositories.NewCartRepository(db)
	favorites := repositories.NewFavoriteRepository(db)
	orders := repositories.NewOrderRepository(db)
	contacts := repositories.NewContactRepository(db)

	var (
		checkoutGateway services.CheckoutGateway
		webhookGateway  services.WebhookGateway
	)
	if key := config.StripeSecretKey(); key != "" {
		stripe := payment.NewStripe(key, config.StripeWebhookSecret())
		checkoutGateway, webhookGateway = stripe, stripe
	} else {
		logger.Warn("kernel: STRIPE_SECRET_KEY is not set; checkout and webhooks are disabled")
	}

	deps := &jobs.Deps{
		Notifier:   notification.New(mailer, config.SlackWebhookURL()),
		Contacts:   contacts,
		Orders:     orders,
		OwnerEmail: config.ShopOwnerEmail(),
		ShopName:   config.MailFromName(),
		AppURL:     config.AppURL(),
	}
	jobs.Register(k.Queue, deps)
	listeners.Register(k.Bus, k.Queue, k.Hub, deps)

	catalog := services.NewCatalogService(products)
	presenter := resources.NewPresenter(disk)

	gqlSchema, err := graphql.NewSchema(schema.Catalog(catalog, presenter))
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	k.Router = newRouter(verifier, routes.Handlers{
		Products:  controllers.NewProductController(catalog, presenter),
		Cart:      controllers.NewCartController(services.NewCartService(products, cart, k.Bus), presenter),
		Favorites: controllers.NewFavoriteController(services.NewFavoriteService(products, favorites), presenter),
		Orders:    controllers.NewOrderController(services.NewOrderService(orders)),
		Checkout: controllers.NewCheckoutController(services.NewCheckoutService(products, cart, checkoutGateway, services.CheckoutConfig{
			AppURL:            config.AppURL(),
			PaymentMethods:    config.StripePaymentMethods(),
			ShippingCountries: config.ShippingCountries(),
		})),
		Webhook: controllers.NewWebhookController(services.NewWebhookService(webhookGateway, products, orders, k.Bus)),
		Contact: controllers.NewContactController(services.NewContactService(contacts, k.Bus)),
		System:  controllers.NewSystemController(db, k.Hub),
		GraphQL: graphql.Handler(gqlSchema),
		Limiter: k.limiter,
	})

	if local, ok := disk.(*storage.LocalDisk); ok {
		k.Router.Mount("/storage", http.StripPrefix("/storage", local.Handler()))
	}
	return k, nil
}

// Handler is the root HTTP handler.
func (k *Kernel) Handler() http.Handler {
	return k.Router.Handler()
}

// Close stops background work. The database handle is left to the caller.
func (k *Kernel) Close() {
	k.Hub.Close()
	k.pool.Shutdown()
	if k.Redis != nil {
		k.Redis.Close()
	}
}

// Routes lists the named routes without booting any dependency.
func Routes() []router.RouteInfo {
	r := router.New()
	routes.RegisterAPI(r, routes.Handlers{Limiter: middleware.NewMemoryLimiter()})
	return r.Routes()
}

func newRouter(v middleware.TokenVerifier, h routes.Handlers) *router.Router {
	r := router.New()

	// Global middleware, outermost first:
	//  1. metrics  - observes total latency including panics
	//  2. Recovery - turns panics into 500
	//  3. reqid    - before anything logs
	//  4. Logger
	//  5. CORS
	//  6. Identify - resolves the optional caller
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins()...)))
	r.Use(middleware.Identify(v))

	routes.RegisterAPI(r, h)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	return r
}

func newQueue(db *gorm.DB, rdb *redis.Client) *queue.Manager {
	var driver queue.Driver = queue.NewMemoryDriver(config.Int("QUEUE_BUFFER", 1024))
	if config.QueueDriver() == "redis" && rdb != nil {
		driver = queue.NewRedisDriver(rdb, config.Get("QUEUE_KEY", "butik:queue"))
	}
	return queue.New(driver,
		queue.WithMaxRetry(config.Int("QUEUE_MAX_RETRY", 3)),
		queue.WithBackoff(config.Duration("QUEUE_BACKOFF", time.Second)),
		queue.WithFailedStore(db),
	)
}

func newLimiter(ctx context.Context, rdb *redis.Client) middleware.Limiter {
	if config.RateLimitDriver() == "redis" && rdb != nil {
		return middleware.NewRedisLimiter(rdb)
	}
	l := middleware.NewMemoryLimiter()
	go l.Sweep(ctx, time.Minute)
	return l
}

// newVerifier returns nil when no identity key is configured, which leaves
// every caller anonymous.
func newVerifier() (middleware.TokenVerifier, error) {
	v, err := auth.NewVerifier(config.IdentityPublicKey(), config.IdentitySecret(), config.IdentityIssuer())
	if errors.Is(err, auth.ErrNoVerificationKey) {
		logger.Warn("kernel: no identity key configured; all callers are anonymous")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func checkOrigin(origins []string) func(*http.Request) bool {
	if slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		return slices.Contains(origins, r.Header.Get("Origin"))
	}
}
