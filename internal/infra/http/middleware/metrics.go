package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/polyglot-leads/internal/entity"
)

const metricsNamespace = "polyglot_leads"

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: metricsNamespace, Name: name, Help: help}, labels)
}

var (
	requestsTotal   = counterVec("http_requests_total", "HTTP requests by route and status", "method", "route", "status")
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests being served",
	})
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_rate_limited_total",
		Help:      "Lead submissions rejected by the rate limiter",
	})

	leadsCreated      = counterVec("leads_created_total", "Submitted leads by language", "language")
	statusUpdates     = counterVec("lead_status_updates_total", "Status changes by target status", "status")
	repliesSent       = counterVec("replies_sent_total", "Agent replies by target language", "target_language")
	integrationErrors = counterVec("integration_errors_total", "Failed calls to external services", "service")
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Metrics labels series with the chi route pattern, so /leads/{id} is one
// series rather than one per lead.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routePattern(r)
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// PromMetrics exports use case events as Prometheus counters.
type PromMetrics struct{}

func (PromMetrics) LeadCreated(language entity.Language) {
	leadsCreated.WithLabelValues(string(language)).Inc()
}

func (PromMetrics) StatusUpdated(status entity.Status) {
	statusUpdates.WithLabelValues(string(status)).Inc()
}

func (PromMetrics) ReplySent(target entity.Language) {
	repliesSent.WithLabelValues(string(target)).Inc()
}

func (PromMetrics) IntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
