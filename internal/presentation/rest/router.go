package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/homefinder/loancalc/pkg/auth"
)

// RouterConfig carries the router's collaborators. Limiter, Meter, Tracer and
// Metrics are optional.
type RouterConfig struct {
	Handler        *Handler
	Health         *HealthHandler
	JWT            *auth.JWTService
	Limiter        *RateLimiter
	Meter          metric.Meter
	Tracer         trace.Tracer
	Metrics        http.Handler
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Handler == nil || cfg.Health == nil {
		return nil, errors.New("rest: handler and health handler are required")
	}
	if cfg.JWT == nil {
		return nil, errors.New("rest: jwt service is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Tracer != nil {
		r.Use(TracingMiddleware(cfg.Tracer))
	}
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Meter != nil {
		mw, err := MetricsMiddleware(cfg.Meter)
		if err != nil {
			return nil, err
		}
		r.Use(mw)
	}

	r.Get("/healthz", cfg.Health.liveness)
	r.Get("/readyz", cfg.Health.readiness)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	h := cfg.Handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(cfg.JWT, unauthorized))
			r.Post("/emi", h.calculateEMI)
			r.Post("/emi/summary", h.emiSummary)
			r.Post("/eligibility", h.checkEligibility)
			r.Post("/eligibility/summary", h.eligibilitySummary)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(cfg.JWT, unauthorized))
			r.Post("/emi/export", h.exportSchedule)
			r.Get("/calculations", h.listCalculations)
			r.Get("/calculations/{id}", h.getCalculation)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusMethodNotAllowed, CodeInvalidInput, "method not allowed")
	})

	return r, nil
}
