// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/http/handlers"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/http/middleware"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/monitoring"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/healthcheck"
)

// Deps are the collaborators the server routes to. Profiles, Catalog,
// Metrics and Tracing are optional.
type Deps struct {
	Planner     inbound.PlannerService
	Preferences inbound.PreferenceService
	Profiles    inbound.ProfileService
	Catalog     inbound.CatalogService
	Health      *healthcheck.HealthCheck
	Metrics     *monitoring.MetricsCollector
	Tracing     *monitoring.TracingProvider
}

// Server is the JSON API HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	deps    Deps
	server  *http.Server
	router  *chi.Mux
	limiter *middleware.RateLimiter
	openAPI *OpenAPIHandler

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a server with all routes mounted
func New(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("api-server"),
		deps:    deps,
		openAPI: NewOpenAPIHandler(logger),
		stop:    make(chan struct{}),
	}
	if cfg.RateLimit.Enable {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize,
			cfg.RateLimit.CleanupInterval, logger)
	}

	s.router = s.setupRoutes()
	h2s := &http2.Server{IdleTimeout: cfg.Server.IdleTimeout}
	var handler http.Handler = s.router
	if cfg.Server.H2C {
		handler = h2c.NewHandler(s.router, h2s)
	}
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       zap.NewStdLog(s.logger),
	}
	if err := http2.ConfigureServer(s.server, h2s); err != nil {
		s.logger.Warn("HTTP/2 not configured", zap.Error(err))
	}
	return s
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()
	mon := s.config.Monitoring

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if s.deps.Tracing != nil {
		r.Use(s.deps.Tracing.HTTPMiddleware)
	}
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.HTTPMiddleware)
	}
	r.Use(middleware.Logger(s.logger, mon.HealthCheckPath, mon.MetricsPath))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}

	if s.deps.Health != nil {
		r.Get(mon.HealthCheckPath, s.deps.Health.Handler())
		r.Get(mon.HealthCheckPath+"/live", s.deps.Health.LivenessHandler())
		r.Get(mon.HealthCheckPath+"/ready", s.deps.Health.ReadinessHandler())
	}
	if mon.EnableMetrics && s.deps.Metrics != nil {
		r.Handle(mon.MetricsPath, s.deps.Metrics.Handler())
	}

	r.Get("/api/v1/openapi.yaml", s.openAPI.ServeSpec)
	r.Get("/api/v1/docs", s.openAPI.ServeDocs)

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.Server.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		}
		r.Use(middleware.JSONOnly())

		handlers.NewPlannerHandlers(s.deps.Planner, s.logger).Routes(r)

		var feedback []func(http.Handler) http.Handler
		if s.limiter != nil {
			feedback = append(feedback, s.limiter.Middleware(userKey))
		}
		handlers.NewPreferenceHandlers(s.deps.Preferences, s.logger).Routes(r, feedback...)

		if s.deps.Profiles != nil {
			handlers.NewProfileHandlers(s.deps.Profiles, s.logger).Routes(r)
		}
		if s.deps.Catalog != nil {
			handlers.NewCatalogHandlers(s.deps.Catalog, s.logger).Routes(r)
		}
	})

	return r
}

// userKey charges feedback writes to the user in the path, falling back
// to the client address
func userKey(r *http.Request) string {
	if id := chi.URLParam(r, "userID"); id != "" {
		return "user:" + id
	}
	return "ip:" + r.RemoteAddr
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	if s.limiter != nil && s.config.RateLimit.CleanupInterval > 0 {
		go s.cleanupLimiter(s.config.RateLimit.CleanupInterval)
	}

	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.Bool("h2c", s.config.Server.H2C),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *Server) cleanupLimiter(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.limiter.Cleanup(); n > 0 {
				s.logger.Debug("Dropped idle rate limit buckets", zap.Int("count", n))
			}
		case <-s.stop:
			return
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	s.stopOnce.Do(func() { close(s.stop) })
	return s.server.Shutdown(ctx)
}
