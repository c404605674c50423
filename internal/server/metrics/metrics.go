// Package metrics collects and exposes Prometheus metrics for the
// newsletter service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service and transport layers use to record
// events, so tests can pass an isolated collector.
type Recorder interface {
	RecordSubscriptionCreated()
	RecordSubscriptionConfirmed()
	RecordEmailSent()
	RecordEmailFailure()
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	registry *prometheus.Registry

	subscriptionsCreated   prometheus.Counter
	subscriptionsConfirmed prometheus.Counter
	emailsSent             prometheus.Counter
	emailsFailed           prometheus.Counter
	httpDuration           *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on a fresh
// registry (standard Go collectors included).
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		subscriptionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_subscriptions_created_total",
			Help: "Subscriptions created in pending_confirmation state.",
		}),
		subscriptionsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_subscriptions_confirmed_total",
			Help: "Subscriptions confirmed via a token visit.",
		}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_emails_sent_total",
			Help: "Emails accepted by the delivery provider.",
		}),
		emailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_emails_failed_total",
			Help: "Emails the delivery provider rejected or that timed out.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsletter_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
	}

	registry.MustRegister(
		c.subscriptionsCreated,
		c.subscriptionsConfirmed,
		c.emailsSent,
		c.emailsFailed,
		c.httpDuration,
	)

	return c
}

func (c *Collector) RecordSubscriptionCreated()   { c.subscriptionsCreated.Inc() }
func (c *Collector) RecordSubscriptionConfirmed() { c.subscriptionsConfirmed.Inc() }
func (c *Collector) RecordEmailSent()             { c.emailsSent.Inc() }
func (c *Collector) RecordEmailFailure()          { c.emailsFailed.Inc() }

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

// Handler returns the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
