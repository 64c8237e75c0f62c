package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_http_requests_total",
			Help: "Total control-surface HTTP requests",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_http_request_duration_seconds",
		Help:    "Request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_http_in_flight",
		Help: "In-flight HTTP requests",
	})
	OfferResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_resolutions_total",
			Help: "Offer resolution chains by outcome",
		}, []string{"outcome"},
	)
	ConsentResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_prompt_results_total",
			Help: "Tracking-permission prompt results by status",
		}, []string{"status"},
	)
	EventsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics events emitted by name",
		}, []string{"event"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, Latency, InFlight, OfferResolutions, ConsentResults, EventsEmitted)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
