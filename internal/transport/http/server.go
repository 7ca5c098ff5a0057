package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ransomnotes/internal/app"
	"ransomnotes/internal/config"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	service *app.Service
	config  *config.Config
	logger  *slog.Logger
}

// NewServer creates a new HTTP server. wsHandler, when non-nil, is mounted
// at GET /ws.
func NewServer(cfg *config.Config, service *app.Service, wsHandler http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		config:  cfg,
		logger:  logger,
	}

	r := chi.NewRouter()
	s.setupRoutes(r, wsHandler)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.middleware(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the configured handler, for tests
func (s *Server) Router() http.Handler {
	return s.server.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(r chi.Router, wsHandler http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleCreateGame)
			r.Post("/join/{code}", s.handleJoinGame)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetState)
				r.Post("/start", s.handleStart)
				r.Post("/submit", s.handleSubmit)
				r.Post("/judge", s.handleJudge)
				r.Post("/advance", s.handleAdvance)
				r.Post("/restart", s.handleRestart)
				r.Post("/bots", s.handleAddBot)
				r.Post("/overrule", s.handleOverruleVote)
				r.Post("/winner-vote", s.handleWinnerVote)
				r.Post("/tiles/reorder", s.handleReorderTiles)
			})
		})
	})

	if wsHandler != nil {
		r.Handle("/ws", wsHandler)
	}
}

// middleware wraps the handler with CORS and request logging
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
