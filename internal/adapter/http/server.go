package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotStore keeps the last assessment per spot for stale fallbacks.
type SnapshotStore interface {
	Save(ctx context.Context, a domain.Assessment) error
	Latest(ctx context.Context, slug string) (domain.Assessment, bool, error)
}

// APIConfig wires the /v1 endpoints. Store and Metrics are optional.
type APIConfig struct {
	Source             domain.ConditionSource
	Store              SnapshotStore
	Metrics            *observability.Metrics
	RankingConcurrency int
	Clock              clockwork.Clock
}

// Server exposes the surf conditions API alongside health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	api        APIConfig
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /v1 API routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, api APIConfig, logger *slog.Logger) *Server {
	if api.Clock == nil {
		api.Clock = clockwork.NewRealClock()
	}
	if api.RankingConcurrency <= 0 {
		api.RankingConcurrency = 4
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/spots", s.handleSpots)
	mux.HandleFunc("GET /v1/spots/{slug}/conditions", s.handleConditions)
	mux.HandleFunc("GET /v1/spots/{slug}/week", s.handleWeek)
	mux.HandleFunc("GET /v1/ranking", s.handleRanking)
	mux.HandleFunc("POST /v1/assess", s.handleAssess)
	mux.HandleFunc("GET /v1/tide", s.handleTide)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// AlwaysReady is a readiness checker for deployments without the pipeline.
type AlwaysReady struct{}

func (AlwaysReady) CheckReadiness(context.Context) error { return nil }
