package server

import (
	"log/slog"
	"net/http"

	"github.com/Perentie01/fitflow/internal/importer"
	"github.com/Perentie01/fitflow/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	imp    *importer.Coordinator
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, imp *importer.Coordinator, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		imp:    imp,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required when one is configured)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/import/preview", s.handleImportPreview)
		r.Post("/api/v1/import/{token}/confirm", s.handleImportConfirm)
		r.Put("/api/v1/blocks/active", s.handleSetActiveBlock)
		r.Post("/api/v1/progress", s.handleSaveProgress)
	})

	// Read endpoints (no auth — tsnet handles access in tailnet mode)
	s.router.Get("/api/v1/import/example", s.handleImportExample)
	s.router.Get("/api/v1/blocks", s.handleListBlocks)
	s.router.Get("/api/v1/blocks/active", s.handleActiveBlock)
	s.router.Get("/api/v1/blocks/{blockID}/days", s.handleBlockDays)
	s.router.Get("/api/v1/workouts", s.handleWorkouts)
	s.router.Get("/api/v1/progress", s.handleProgress)
	s.router.Get("/api/v1/progress/history", s.handleProgressHistory)
	s.router.Get("/api/v1/export/{blockID}", s.handleExport)
	s.router.Get("/api/v1/status", s.handleStatus)
}
