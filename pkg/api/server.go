// Package api exposes the simulation engine over HTTP: snapshot and
// status reads, playback controls, a live event stream, health and
// metrics. It is a thin projection; all semantics live in pkg/sim.
package api

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-flowsim/pkg/health"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/metrics"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
	"github.com/dd0wney/cluso-flowsim/pkg/sim"
)

// Server represents the HTTP API server
type Server struct {
	engine    *sim.Engine
	bus       *pubsub.Bus
	checker   *health.Checker
	metrics   *metrics.Registry
	log       logging.Logger
	startTime time.Time
}

// NewServer creates a new API server around an engine. The bus feeds
// the /events stream; a nil bus disables it.
func NewServer(engine *sim.Engine, bus *pubsub.Bus, reg *metrics.Registry, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	checker := health.NewChecker()
	checker.RegisterCheck("engine_running", health.EngineRunningCheck(engine))
	checker.RegisterCheck("step_freshness", health.StepFreshnessCheck(engine, 30*time.Second))

	return &Server{
		engine:    engine,
		bus:       bus,
		checker:   checker,
		metrics:   reg,
		log:       logger.With(logging.Component("api")),
		startTime: time.Now(),
	}
}

// Handler builds the route table with the middleware chain applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Read side
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/status", s.handleStatus)
	if s.bus != nil {
		mux.HandleFunc("/events", s.handleEvents)
	}

	// Playback controls
	mux.HandleFunc("/pause", s.handlePause)
	mux.HandleFunc("/speed", s.handleSpeed)
	mux.HandleFunc("/reset", s.handleReset)

	// Operational endpoints
	mux.HandleFunc("/health", s.checker.HTTPHandler())
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = s.loggingMiddleware(handler)
	if s.metrics != nil {
		handler = s.metricsMiddleware(handler)
	}
	handler = requestIDMiddleware(handler)
	return handler
}
