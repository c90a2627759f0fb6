// Package api assembles the HTTP server: middleware, routes and the
// handlers of the sub-packages.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	apiConfig "startup_valuation/pkg/api/config"
	apiValuation "startup_valuation/pkg/api/valuation"
	coreConfig "startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/format"
	"startup_valuation/pkg/core/narrative"
	"startup_valuation/pkg/core/report"
)

// Server wraps the router and the underlying http.Server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New builds a server from cfg. narrators may be nil to disable narratives.
func New(cfg coreConfig.Config, log zerolog.Logger, narrators map[string]narrative.Narrator) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log.With().Str("component", "server").Logger(),
	}

	modes := make([]string, 0, len(narrators))
	for name := range narrators {
		modes = append(modes, name)
	}

	serializer := report.Serializer{
		Formatter: format.Formatter{Symbol: cfg.CurrencySymbol},
		Title:     cfg.ReportTitle,
	}
	valuationHandler := apiValuation.NewHandler(log, serializer, narrators)
	configHandler := apiConfig.NewHandler(cfg, modes)

	s.setupMiddleware()
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/config", configHandler.HandleConfig)
		r.Route("/valuation", valuationHandler.Routes)
	})

	s.server = &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("API server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Run-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
