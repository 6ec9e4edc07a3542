// Package web serves the document proxy, the supplier JSON API and the
// supplier list page.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lulicroppi/malaly-merceria/internal/blob"
	"github.com/lulicroppi/malaly-merceria/internal/config"
	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
	mw "github.com/lulicroppi/malaly-merceria/internal/web/middleware"
)

// Server is the HTTP server of the application.
type Server struct {
	cfg     *config.Config
	repo    *core.Repository
	doc     transport.Document
	store   blob.Store
	limiter *core.UploadLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer wires the routes. store backs the document proxy at
// /api/excel; a nil store (remote document mode) leaves the proxy unmounted.
func NewServer(cfg *config.Config, repo *core.Repository, doc transport.Document, store blob.Store) *Server {
	s := &Server{
		cfg:     cfg,
		repo:    repo,
		doc:     doc,
		store:   store,
		limiter: core.NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleSupplierPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)

		if s.store != nil {
			r.Group(func(r chi.Router) {
				r.Use(mw.BearerToken(s.cfg.Storage.Token))
				r.HandleFunc("/excel", s.handleDocument)
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
			r.Use(middleware.Compress(5))

			r.Post("/bootstrap", s.handleBootstrap)

			r.Get("/suppliers", s.handleListSuppliers)
			r.Post("/suppliers", s.handleCreateSupplier)
			r.Get("/suppliers/{id}", s.handleGetSupplier)
			r.Put("/suppliers/{id}", s.handleUpdateSupplier)
			r.Get("/suppliers/{id}/products", s.handleListSupplierProducts)
			r.Post("/suppliers/{id}/products", s.handleAddSupplierProducts)
		})
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

	logging.FromContext(context.Background()).Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight uploads to
// reach the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
