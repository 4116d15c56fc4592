package mockhog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config holds the emulator's configuration.
type Config struct {
	Port int
	// PersonalAPIKey, when set, is required as the Bearer token on
	// /api/projects routes. Empty accepts any non-empty token.
	PersonalAPIKey string
	Verbose        bool
}

// Server is the mock PostHog HTTP server. It implements http.Handler so
// tests can mount it on httptest.Server directly.
type Server struct {
	cfg    Config
	store  *Store
	router *chi.Mux
	logger *slog.Logger
}

// resourceNames are the project resource collections the emulator serves.
var resourceNames = []string{
	"insights", "persons", "cohorts", "feature_flags", "experiments", "annotations",
}

// creatableResources are the collections that accept POST.
var creatableResources = map[string]bool{
	"insights": true, "cohorts": true, "annotations": true,
}

// New creates a mock server with empty state.
func New(cfg Config) *Server {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	s := &Server{
		cfg:    cfg,
		store:  NewStore(),
		router: chi.NewRouter(),
		logger: logger,
	}

	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Verbose {
		r.Use(chimw.Logger)
	}

	// Ingestion endpoints: api_key travels in the body, no Bearer auth.
	r.Post("/i/v0/e/", s.handleCapture)
	r.Post("/e", s.handleCapture)
	r.Post("/e/", s.handleCapture)
	r.Post("/capture", s.handleCapture)
	r.Post("/capture/", s.handleCapture)
	r.Post("/batch", s.handleBatch)
	r.Post("/batch/", s.handleBatch)
	r.Post("/flags", s.handleFlags)
	r.Post("/flags/", s.handleFlags)

	// Analytics API: Bearer auth.
	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Get("/api/projects/{projectID}/", s.handleProjectInfo)
		r.Post("/api/projects/{projectID}/query/", s.handleQuery)
		for _, name := range resourceNames {
			r.Get("/api/projects/{projectID}/"+name+"/", s.handleResourceList(name))
			if creatableResources[name] {
				r.Post("/api/projects/{projectID}/"+name+"/", s.handleResourceCreate(name))
			}
		}
	})

	// Admin extras (no auth).
	r.Get("/admin/health", s.handleAdminHealth)
	r.Post("/admin/reset", s.handleAdminReset)
	r.Get("/admin/events", s.handleAdminEvents)
	r.Post("/admin/feature-flags", s.handleAdminSetFlags)
	r.Post("/admin/query-results", s.handleAdminQueryResults)
	r.Post("/admin/resources/{name}", s.handleAdminSetResources)

	return s
}

// Store exposes the backing store for test seeding.
func (s *Server) Store() *Store { return s.store }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// bearerAuth enforces Bearer auth on analytics API routes.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing personal API key")
			return
		}
		if s.cfg.PersonalAPIKey != "" && token != s.cfg.PersonalAPIKey {
			writeError(w, http.StatusUnauthorized, "invalid personal API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Serve starts the HTTP server and blocks until a shutdown signal.
func (s *Server) Serve() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting mock PostHog server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	s.logger.Info("shutting down mock PostHog server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a PostHog-style JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"type":   "validation_error",
		"code":   http.StatusText(status),
		"detail": message,
	})
}
