package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/aidancornelius/murmur-engine/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the murmur HTTP API server.
type Server struct {
	db        *store.DB
	engine    *engine.Engine
	baselines engine.Baselines
	router    chi.Router
	version   string
	started   time.Time
}

// New creates a new Server with the given database, engine and version.
func New(db *store.DB, eng *engine.Engine, baselines engine.Baselines, version string) *Server {
	s := &Server{
		db:        db,
		engine:    eng,
		baselines: baselines,
		version:   version,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/events", s.handleAddEvent)
		r.Post("/symptoms", s.handleAddSymptom)
		r.Put("/sleep", s.handleUpsertSleep)

		r.Get("/scores", s.handleScores)

		r.Get("/reflections/{date}", s.handleGetReflection)
		r.Put("/reflections/{date}", s.handlePutReflection)

		r.Get("/calibration", s.handleCalibrationStatus)
		r.Post("/calibration/start", s.handleCalibrationStart)
		r.Post("/calibration/good-day", s.handleGoodDay)

		r.Put("/config", s.handlePutConfig)

		r.Post("/classify", s.handleClassify)
	})

	r.NotFound(spaHandler())

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
