package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/openlis/lis-backend/docs"
	"github.com/openlis/lis-backend/internal/api/handler"
	"github.com/openlis/lis-backend/internal/api/middleware"
	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// Services bundles the core services the routes dispatch to.
type Services struct {
	Auth     ports.AuthService
	Gate     ports.Authorizer
	Patients ports.PatientService
	Orders   ports.OrderService
	Results  ports.ResultService
	// Store is pinged by the readiness probe.
	Store handler.Pinger
}

// Options toggles the optional HTTP surfaces.
type Options struct {
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	SwaggerEnabled     bool
	BodyLimit          string
	// MetricsRegistry receives the HTTP request collectors. Nil means the
	// process-wide default registry, which accepts them only once.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	bodyLimit := opts.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "1M"
	}
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	if opts.MetricsEnabled {
		var (
			registerer prometheus.Registerer = prometheus.DefaultRegisterer
			gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
		)
		if opts.MetricsRegistry != nil {
			registerer = opts.MetricsRegistry
			// lis_* counters stay on the default registry.
			gatherer = prometheus.Gatherers{opts.MetricsRegistry, prometheus.DefaultGatherer}
		}
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "lis",
			Registerer: registerer,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: gatherer,
		}))
	}
	if opts.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- Auth chain for mutating routes ---
	authn := middleware.Authenticate(svc.Auth)
	writers := middleware.RequireRoles(svc.Gate, domain.RoleAdmin, domain.RoleTechnician)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/token", authHandler.Token)
	e.GET("/auth/me", authHandler.Me, authn)

	// --- Lab routes; reads are public ---
	patients := handler.NewPatientHandler(svc.Patients)
	pg := e.Group("/patients")
	collection(pg, patients.List, patients.Create, authn, writers)
	pg.GET("/:id", patients.Get)

	orders := handler.NewOrderHandler(svc.Orders)
	og := e.Group("/orders")
	collection(og, orders.List, orders.Create, authn, writers)
	og.GET("/:id", orders.Get)

	results := handler.NewResultHandler(svc.Results)
	rg := e.Group("/results")
	collection(rg, results.List, results.Create, authn, writers)
	rg.GET("/:id", results.Get)

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(map[string]handler.Pinger{"database": svc.Store})
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	return e
}

// collection registers list and create on both "/x" and "/x/".
func collection(g *echo.Group, list, create echo.HandlerFunc, mw ...echo.MiddlewareFunc) {
	for _, path := range []string{"", "/"} {
		g.GET(path, list)
		g.POST(path, create, mw...)
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

