package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/pricing/coins", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/pricing/coins", "200"))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pricing/coins", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/pricing/coins", "200"))

	assert.Equal(t, float64(3), after-before)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestMiddleware_HTTPErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "no") })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "418"))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/boom", "418"))-before)
}

func TestObserveProbe(t *testing.T) {
	before := testutil.ToFloat64(diagnosticsProbes.WithLabelValues("working"))
	ObserveProbe("working")
	assert.Equal(t, float64(1), testutil.ToFloat64(diagnosticsProbes.WithLabelValues("working"))-before)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveProbe("not_found")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `skyblock_diagnostics_probes_total{outcome="not_found"}`))
	assert.Contains(t, body, "go_goroutines")
}
