package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/plainspeak/internal/config"
	"github.com/dgallion1/plainspeak/internal/metrics"
	"github.com/dgallion1/plainspeak/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for plainspeak.
type Server struct {
	router  chi.Router
	proc    pipeline.Processor
	runner  *pipeline.Runner
	stats   *pipeline.LatencyStats
	metrics *metrics.Metrics
	limiter *RateLimiter
	log     *slog.Logger
	cfg     config.Config
}

// Deps are the collaborators a Server needs. Runner, Stats and Metrics may
// be nil; the matching routes then report 503 or are not mounted.
type Deps struct {
	Processor pipeline.Processor
	Runner    *pipeline.Runner
	Stats     *pipeline.LatencyStats
	Metrics   *metrics.Metrics
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		proc:    deps.Processor,
		runner:  deps.Runner,
		stats:   deps.Stats,
		metrics: deps.Metrics,
		log:     log,
		cfg:     cfg,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		r.Get("/api/formats", s.handleFormats)
		r.Post("/api/documents", s.handleProcess)

		r.Post("/api/jobs", s.handleSubmitJob)
		r.Post("/api/jobs/batch", s.handleSubmitBatch)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
