package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Forecaster produces prediction events for API requests.
type Forecaster interface {
	Forecast(ctx context.Context, req domain.PredictionRequest) (domain.PredictionEvent, error)
}

// API holds the collaborators behind the /v1 routes.
type API struct {
	Forecaster Forecaster
	// Weather resolves live conditions; nil disables /v1/conditions.
	Weather domain.WeatherSource
	// Language is the guide catalog used when a request does not pick one.
	Language string
	Metrics  *observability.Metrics
}

// Server exposes the prediction API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	api        API
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 API, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, api API, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 20 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	mux.HandleFunc("POST /v1/predictions", s.handlePredict)
	mux.HandleFunc("GET /v1/conditions", s.handleConditions)
	mux.HandleFunc("GET /v1/moon", s.handleMoon)
	mux.HandleFunc("GET /v1/guide", s.handleGuide)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

// AlwaysReady reports ready unconditionally, for deployments without a pipeline.
type AlwaysReady struct{}

func (AlwaysReady) CheckReadiness(context.Context) error { return nil }
