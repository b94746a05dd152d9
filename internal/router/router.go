package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"                   // Echo web framework handles routing
	echomw "github.com/labstack/echo/v4/middleware" // stock Echo middleware (CORS, request id, recover)
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/skyblock-shop/internal/handler"
	"github.com/iliyamo/skyblock-shop/internal/logging"
	"github.com/iliyamo/skyblock-shop/internal/metrics"
)

// Options selects the global middleware installed by Setup.
type Options struct {
	Logger    logrus.FieldLogger
	Metrics   bool
	RateLimit echo.MiddlewareFunc // nil disables rate limiting
}

// Setup installs the global middleware chain.  Order matters: panics are
// recovered first, every request gets an id before it is logged, and CORS
// headers are written even on rate limited responses.
func Setup(e *echo.Echo, o Options) {
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	if o.Logger != nil {
		e.Use(logging.RequestLogger(o.Logger))
	}
	if o.Metrics {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
	e.Use(CORS())
	if o.RateLimit != nil {
		e.Use(o.RateLimit)
	}
}

// CORS is fully open.  Browsers treat "*" literally on credentialed
// requests, so the origin and the preflight's requested headers are
// echoed back and the methods are listed explicitly.
func CORS() echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodOptions,
			http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		// empty: echo reflects Access-Control-Request-Headers
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
	})
}

// RegisterRoutes registers the fixed-message and health endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/api/hello", handler.Hello)
	// Load balancers probe /healthz; it never touches the catalog or the database.
	e.GET("/healthz", handler.Health)
}

// RegisterPricing registers the catalog endpoints under /api/pricing.  The
// cache middleware only wraps this group.
func RegisterPricing(e *echo.Echo, p *handler.PricingHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/pricing")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("", p.GetPricing)
	g.GET("/coins", p.GetCoins)
	g.GET("/accounts", p.GetAccounts)
}

// RegisterDiagnostics registers GET /test.
func RegisterDiagnostics(e *echo.Echo, d *handler.DiagnosticsHandler) {
	e.GET("/test", d.Test)
}

// New builds a fully wired Echo instance.
func New(o Options, p *handler.PricingHandler, d *handler.DiagnosticsHandler, cache echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	Setup(e, o)
	RegisterRoutes(e)
	RegisterPricing(e, p, cache)
	RegisterDiagnostics(e, d)
	return e
}
