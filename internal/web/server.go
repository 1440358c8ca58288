package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/prodplan/internal/endpoint"
	"github.com/example/prodplan/internal/observability"
)

// Server is the HTTP server for the plan API.
type Server struct {
	addr       string
	handlers   *Handlers
	mux        *http.ServeMux
	logger     *zap.Logger
	metrics    *observability.Metrics
	httpServer *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, endpoints endpoint.Endpoints, metrics *observability.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		addr:     addr,
		handlers: NewHandlers(endpoints, logger),
		mux:      http.NewServeMux(),
		logger:   logger,
		metrics:  metrics,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Trailing slash enables prefix matching for all /api/plans/* paths
	s.mux.HandleFunc("/api/plans/", s.corsMiddleware(s.routePlans))
	s.mux.Handle("/metrics", s.metrics)
}

// routePlans routes requests to the appropriate handler based on the path.
func (s *Server) routePlans(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/plans")

	switch {
	case path == "" || path == "/":
		switch r.Method {
		case http.MethodGet:
			s.handlers.ListPlans(w, r)
		case http.MethodPost:
			s.handlers.CreatePlan(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case strings.HasSuffix(path, "/production"):
		if r.Method == http.MethodGet {
			s.handlers.GetProduction(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case strings.HasSuffix(path, "/adjustments"):
		switch r.Method {
		case http.MethodGet:
			s.handlers.ListAdjustments(w, r)
		case http.MethodPost:
			s.handlers.ApplyAdjustment(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		switch r.Method {
		case http.MethodGet:
			s.handlers.GetPlan(w, r)
		case http.MethodDelete:
			s.handlers.DeletePlan(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// corsMiddleware adds CORS headers to responses and records response counts.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.HTTPResponses().WithLabels(r.Method + " " + strconv.Itoa(rec.status)).Inc()
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	s.logger.Info("starting web server", zap.String("addr", s.addr))
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.mux}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}
