package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skilltree/interfaces/http/rest/handlers"
	"skilltree/interfaces/http/rest/middleware"
	pkgerrors "skilltree/pkg/errors"
	"skilltree/pkg/observability"
)

// ReadinessCheck reports whether the service can take traffic
type ReadinessCheck func() error

// Options configures the router
type Options struct {
	AllowedOrigin string
	Debug         bool
	Tracing       bool
	Metrics       *observability.Collector
	Ready         ReadinessCheck
}

// Router creates and configures the HTTP router
type Router struct {
	relay    handlers.Relayer
	sessions handlers.SessionAPI
	logger   *zap.Logger
	opts     Options
}

// NewRouter creates a new router instance
func NewRouter(
	relay handlers.Relayer,
	sessions handlers.SessionAPI,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		relay:    relay,
		sessions: sessions,
		logger:   logger,
		opts:     opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Tracing {
		router.Use(observability.TracingMiddleware("skilltree"))
	}
	if rt.opts.Metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.opts.Metrics))
	}

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{rt.opts.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.opts.Metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.opts.Metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	router.Route("/api", func(r chi.Router) {
		relayHandler := handlers.NewRelayHandler(rt.relay, errorHandler, rt.logger)
		r.Post("/groq", relayHandler.Relay)

		r.Route("/sessions", func(r chi.Router) {
			sessionHandler := handlers.NewSessionHandler(rt.sessions, errorHandler, rt.logger)
			r.Post("/", sessionHandler.StartSession)
			r.Get("/{sessionID}/graph", sessionHandler.GetGraph)
			r.Put("/{sessionID}/selection", sessionHandler.SelectNode)
			r.Post("/{sessionID}/nodes", sessionHandler.AddNode)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.opts.Ready != nil {
		if err := rt.opts.Ready(); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
