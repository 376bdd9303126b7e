// Package web serves presenter view models to a browser front end.
package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"histpattern/internal/assetclass"
	"histpattern/internal/client"
	"histpattern/internal/config"
	"histpattern/internal/session"
)

// Server represents the web server
type Server struct {
	config   *config.Config
	api      client.API
	registry *assetclass.Registry
	session  *session.Coordinator
	logger   zerolog.Logger
	gatherer prometheus.Gatherer

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// NewServer creates a new web server. A nil gatherer disables /metrics.
func NewServer(cfg *config.Config, api client.API, registry *assetclass.Registry, sess *session.Coordinator, logger zerolog.Logger, gatherer prometheus.Gatherer) *Server {
	if registry == nil {
		registry = assetclass.Default()
	}
	return &Server{
		config:   cfg,
		api:      api,
		registry: registry,
		session:  sess,
		logger:   logger,
		gatherer: gatherer,
	}
}

// Handler builds the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /view/query", s.handleQuery)
	mux.HandleFunc("GET /view/results", s.handleResults)
	mux.HandleFunc("GET /view/suggest", s.handleSuggest)
	mux.HandleFunc("GET /view/chart/{ticker}", s.handleChart)
	mux.HandleFunc("GET /view/asset-classes", s.handleAssetClasses)
	mux.HandleFunc("GET /view/tickers", s.handleTickers)
	mux.HandleFunc("GET /view/etf/{symbol}", s.handleETF)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.gatherer != nil && s.config.Server.Metrics {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return s.logMiddleware(corsMiddleware(s.config.Server.CORSOrigins, mux))
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	if port <= 0 {
		port = s.config.Server.Port
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info().Int("port", port).Str("api", s.config.API.BaseURL).Msg("Starting view server")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server. A later Start returns at once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers for the configured origins
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}
