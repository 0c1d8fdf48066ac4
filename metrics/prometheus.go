package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var SubmissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "work_request_submissions_total",
		Help: "Total number of public form submissions by outcome",
	},
	[]string{"form", "status"},
)

var NotificationsAttemptedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_attempted_total",
		Help: "Total number of notification emails attempted",
	},
	[]string{"form", "status"},
)

var NotificationSendDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Time taken to hand a notification to the mail transport",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"form"},
)

var ExternalAPISuccessTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_success_total",
		Help: "Total number of successful external API calls",
	},
	[]string{"service"},
)

var ExternalAPIFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_failure_total",
		Help: "Total number of failed external API calls",
	},
	[]string{"service"},
)

var ExternalAPIDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "external_api_duration_seconds",
		Help:    "Duration of external API calls in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service"},
)

var initOnce sync.Once

// Init registers the collectors with the default registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HttpRequestsTotal)
		prometheus.MustRegister(HttpRequestDuration)
		prometheus.MustRegister(SubmissionsTotal)
		prometheus.MustRegister(NotificationsAttemptedTotal)
		prometheus.MustRegister(NotificationSendDuration)
		prometheus.MustRegister(ExternalAPISuccessTotal)
		prometheus.MustRegister(ExternalAPIFailureTotal)
		prometheus.MustRegister(ExternalAPIDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records count and latency per route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status), r.Method).Inc()
		HttpRequestDuration.WithLabelValues(endpoint, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveExternal records the outcome of one outbound call started at start.
func ObserveExternal(service string, start time.Time, err error) {
	ExternalAPIDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	if err != nil {
		ExternalAPIFailureTotal.WithLabelValues(service).Inc()
		return
	}
	ExternalAPISuccessTotal.WithLabelValues(service).Inc()
}
