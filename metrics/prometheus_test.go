package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/forms/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/api/forms/{slug}", "418", "GET"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/forms/work-request", nil))
	after := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/api/forms/{slug}", "418", "GET"))

	assert.Equal(t, before+1, after)
}

func TestObserveExternal(t *testing.T) {
	ok := testutil.ToFloat64(ExternalAPISuccessTotal.WithLabelValues("test"))
	failed := testutil.ToFloat64(ExternalAPIFailureTotal.WithLabelValues("test"))

	ObserveExternal("test", time.Now(), nil)
	ObserveExternal("test", time.Now(), errors.New("down"))

	assert.Equal(t, ok+1, testutil.ToFloat64(ExternalAPISuccessTotal.WithLabelValues("test")))
	assert.Equal(t, failed+1, testutil.ToFloat64(ExternalAPIFailureTotal.WithLabelValues("test")))
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
