// Package server exposes the matrix builder and the pairwise aligner over
// JSON/HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"seqtree/internal/appcore"
	"seqtree/internal/config"
	"seqtree/internal/metrics"
)

// Server holds the long-lived pieces shared by every request.
type Server struct {
	cfg      *config.Config
	builder  *appcore.Builder
	metrics  *metrics.Collector
	log      *zap.Logger
	validate *validator.Validate
}

// New returns a Server. A nil collector disables metrics; a nil logger
// logs nothing.
func New(cfg *config.Config, b *appcore.Builder, m *metrics.Collector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, builder: b, metrics: m, log: log, validate: newValidator()}
}

// Handler wires the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.log, s.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody(s.cfg.Server.MaxBodyBytes))
		r.Post("/build", s.build)
		r.Post("/align", s.align)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
