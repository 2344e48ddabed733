// Package server exposes the JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/pob"
	"exile-tracker/internal/repository"
	"exile-tracker/internal/service"
	"exile-tracker/internal/session"
)

type Server struct {
	builds   *service.BuildService
	upgrades *service.UpgradeService
	presets  *service.PresetService
	logger   zerolog.Logger
}

func New(builds *service.BuildService, upgrades *service.UpgradeService, presets *service.PresetService, logger zerolog.Logger) *Server {
	return &Server{
		builds:   builds,
		upgrades: upgrades,
		presets:  presets,
		logger:   logger,
	}
}

// Register attaches all routes to the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/builds", s.handleImport)
	mux.HandleFunc("GET /api/builds/{sessionID}", s.handleGetBuild)
	mux.HandleFunc("DELETE /api/builds/{sessionID}", s.handleDeleteBuild)
	mux.HandleFunc("GET /api/builds/{sessionID}/analysis", s.handleAnalyze)
	mux.HandleFunc("POST /api/builds/{sessionID}/rank", s.handleRank)
	mux.HandleFunc("POST /api/builds/{sessionID}/rank/export", s.handleRankExport)

	mux.HandleFunc("GET /api/stats", s.handleStatDefinitions)

	mux.HandleFunc("POST /api/presets", s.handleCreatePreset)
	mux.HandleFunc("GET /api/presets", s.handleListPresets)
	mux.HandleFunc("GET /api/presets/{id}", s.handleGetPreset)
	mux.HandleFunc("PUT /api/presets/{id}", s.handleUpdatePreset)
	mux.HandleFunc("DELETE /api/presets/{id}", s.handleDeletePreset)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps known error types to HTTP statuses. Import errors
// are client mistakes; missing sessions and presets are 404s.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var importErr *pob.ImportError
	switch {
	case errors.As(err, &importErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: "invalid transfer code",
			Hint:  importErr.Reason,
		})
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
	case errors.Is(err, repository.ErrPresetNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "preset not found"})
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func gameOrDefault(g domain.Game) domain.Game {
	if g == "" {
		return domain.GamePoE1
	}
	return g
}
