// Package server is the websocket event surface of the front desk agent.
// Each client connection gets its own orchestrator state; events arrive as
// JSON envelopes and responses go back over the same socket through a
// single writer goroutine.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/checkin-charlie/frontdesk/internal/metrics"
	"github.com/checkin-charlie/frontdesk/pkg/agent"
	"github.com/checkin-charlie/frontdesk/pkg/capture"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16384,
	WriteBufferSize: 16384,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SourceFactory opens a capture source for one streaming request.
type SourceFactory func(ctx context.Context) (capture.Source, error)

// Config holds the server's shared collaborators.
type Config struct {
	Orchestrator  *agent.Orchestrator
	NewSource     SourceFactory
	Logger        *slog.Logger
	MaxConcurrent int
}

// Server accepts websocket clients and dispatches their events.
type Server struct {
	orch      *agent.Orchestrator
	newSource SourceFactory
	logger    *slog.Logger
	sem       chan struct{}
}

// New creates a Server with admission control.
func New(cfg Config) *Server {
	maxConc := cfg.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orch:      cfg.Orchestrator,
		newSource: cfg.NewSource,
		logger:    logger,
		sem:       make(chan struct{}, maxConc),
	}
}

// Handler returns the HTTP mux: the websocket endpoint plus health and
// metrics endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// handleWS upgrades the connection and runs its event loop. Returns 503
// when at capacity.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	default:
		http.Error(w, "at capacity", http.StatusServiceUnavailable)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	metrics.ConnectionsActive.Inc()
	metrics.ConnectionsTotal.Inc()
	defer metrics.ConnectionsActive.Dec()

	s.runConn(r.Context(), ws)
}
