// Package httpserver provides the HTTP REST API for the bibliographic
// enrichment service.
package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/medbiblio/biblio-enrichment-service/internal/classify"
	"github.com/medbiblio/biblio-enrichment-service/internal/concepts"
	"github.com/medbiblio/biblio-enrichment-service/internal/enrich"
	"github.com/medbiblio/biblio-enrichment-service/internal/reference"
)

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	service    *enrich.Service
	table      *reference.Table
	tagger     *concepts.Tagger
	validate   *validator.Validate
	logger     zerolog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	service *enrich.Service,
	table *reference.Table,
	tagger *concepts.Tagger,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		service:  service,
		table:    table,
		tagger:   tagger,
		validate: validator.New(),
		logger:   logger.With().Str("component", "http-server").Logger(),
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogMiddleware(s.logger))
	r.Use(jsonContentTypeMiddleware)

	// Health endpoint
	r.Get("/healthz", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(userContextMiddleware)

			r.Post("/harvest", s.harvestHandler)
			r.Post("/records", s.manualRecordHandler)
			r.Post("/resegment", s.resegmentHandler)
			r.Post("/dedupe", s.dedupeHandler)
		})

		r.Post("/journals/classify", s.classifyHandler)
		r.Post("/journals/tag", s.tagHandler)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"reference": fmt.Sprintf("%d journals", s.table.Len()),
	})
}

// classifyHandler resolves a journal name to its impact tier.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		Journal: req.Journal,
		Tier:    classify.Classify(req.Journal, s.table),
	})
}

// tagHandler resolves a journal name to its concept label.
func (s *Server) tagHandler(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, tagResponse{
		Journal: req.Journal,
		Concept: s.tagger.Tag(req.Journal),
	})
}
