// Package web provides the HTTP server and JSON API for the roster
// reconciliation service.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/learnandgrow/rostersync/internal/config"
	"github.com/learnandgrow/rostersync/internal/core"
	"github.com/learnandgrow/rostersync/internal/web/middleware"
)

// Server is the HTTP server for the roster API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)
	s.router.Use(requestContext)
}

// setupRoutes configures all HTTP routes. Reads are open; every mutating
// endpoint sits behind API-key auth.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Roster reads
		r.Get("/employees", s.handleListEmployees)
		r.Get("/employees/{id}", s.handleGetEmployee)

		// Dimension dropdowns
		r.Get("/divisions", s.handleListDivisions)
		r.Get("/departments", s.handleListDepartments)
		r.Get("/positions", s.handleListPositions)

		// Mutations and previews that read spreadsheet payloads
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(&s.cfg.Security))

			r.Post("/employees/import", s.handleImport)
			r.Post("/employees/test-import", s.handleTestImport)
			r.Post("/employees/import-file", s.handleImportFile)
			r.Post("/employees/attrition", s.handleAttrition)
			r.Post("/employees/retire", s.handleRetire)
			r.Post("/employees/retire/preview", s.handleRetirePreview)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds baseline security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// requestContext copies request identity into the context the core audit
// trail reads from. The actor defaults to the remote address when no
// X-Actor header is sent.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor := r.Header.Get("X-Actor")
		if actor == "" {
			actor = r.RemoteAddr
		}
		ctx = core.ContextWithActor(ctx, actor)
		ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode", "error", err)
	}
}
