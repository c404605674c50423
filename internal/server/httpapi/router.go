package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/metrics"
	"github.com/go-chi/chi/v5"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	Subscriptions SubscriptionProcessor
	Newsletters   IssuePublisher
	Authority     TokenAuthority
	Metrics       *metrics.Collector
	RateLimiter   *RateLimiter
	Logger        logging.Logger
}

// NewRouter assembles the full route table and middleware chain.
//
// Middleware order: recovery → request logging/metrics → (public routes
// only) per-IP rate limiting. /healthz and /metrics sit outside the rate
// limit so probes and scrapes are never rejected.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	h := NewHandler(deps.Subscriptions, deps.Newsletters, deps.Authority, deps.Logger)

	r.Use(recoveryMiddleware(deps.Logger))
	r.Use(requestLogMiddleware(deps.Logger, deps.Metrics))

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Unauthenticated intake, rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		r.Post("/subscriptions", h.Subscribe)
		r.Get("/subscriptions/confirm", h.Confirm)
		r.Post("/login", h.Login)
	})

	// Publisher routes behind bearer auth.
	r.Group(func(r chi.Router) {
		r.Use(bearerAuthMiddleware(deps.Authority))

		r.Post("/newsletters", h.Publish)
	})

	return r
}
