// Package api exposes the round engine to the outer tournament driver
// over HTTP: run a round, fetch round history, health.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codearena/arena/internal/store"
)

// Server handles HTTP requests.
type Server struct {
	db        store.DB
	service   RoundService
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates the API server.
func NewServer(db store.DB, service RoundService) *Server {
	return &Server{
		db:        db,
		service:   service,
		logger:    log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile),
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware. Round execution is
// synchronous, so the request timeout has to cover a full round.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rounds", s.handleRunRound)
		r.Get("/rounds", s.handleListRounds)
		r.Get("/rounds/{id}", s.handleGetRound)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

type runRoundRequest struct {
	Round int `json:"round"`
}

func (s *Server) handleRunRound(w http.ResponseWriter, r *http.Request) {
	var req runRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Round < 1 {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "round must be >= 1")
		return
	}

	round, err := s.service.RunRound(r.Context(), req.Round)
	if err != nil {
		s.logger.Printf("run round %d: %v", req.Round, err)
		s.writeError(w, http.StatusInternalServerError, "round_failed", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, round)
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	query := store.RoundsQuery{
		Game:    r.URL.Query().Get("game"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
	}

	list, err := s.db.ListRounds(query)
	if err != nil {
		s.logger.Printf("list rounds: %v", err)
		s.writeError(w, http.StatusInternalServerError, "storage_error", "could not list rounds")
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	round, err := s.db.GetRound(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, round)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, map[string]any{
		"error":   errType,
		"message": message,
	})
}
