// Package web serves phone book generation over HTTP.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/phonebook/internal/config"
	"github.com/JonMunkholm/phonebook/internal/contact"
	"github.com/JonMunkholm/phonebook/internal/phonebook"
	mw "github.com/JonMunkholm/phonebook/internal/web/middleware"
)

// ContactLister provides the stored contact list.
type ContactLister interface {
	List(ctx context.Context) ([]contact.Contact, error)
}

// Server is the HTTP server for phone book generation.
type Server struct {
	cfg      *config.Config
	books    *phonebook.Service
	contacts ContactLister
	limiter  *phonebook.Limiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server. contacts may be nil when no database is
// configured; GET /api/phonebook then answers 503.
func NewServer(cfg *config.Config, books *phonebook.Service, contacts ContactLister) *Server {
	s := &Server{
		cfg:      cfg,
		books:    books,
		contacts: contacts,
		limiter:  phonebook.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Server.TrustedProxyList()))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.limit)
		r.Post("/phonebook", s.handleGenerate)
		r.Get("/phonebook", s.handleGenerateStored)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and waits for renders in progress.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if n := s.limiter.Active(); n > 0 {
		slog.Info("waiting for renders to complete", "active", n)
	}
	return s.limiter.Drain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// limit holds a render slot for the duration of the request.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.limiter.Acquire(r.Context()); err != nil {
			respondError(w, r, err)
			return
		}
		defer s.limiter.Release()
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
