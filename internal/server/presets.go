package server

import (
	"errors"
	"net/http"
	"strconv"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/ranking"
	"exile-tracker/internal/repository"
)

func (s *Server) handleStatDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stats": ranking.StatDefinitions()})
}

type presetRequest struct {
	Name    string             `json:"name"`
	Game    domain.Game        `json:"game,omitempty"`
	Weights map[string]float64 `json:"weights"`
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	preset := &domain.WeightPreset{
		Name:    req.Name,
		Game:    gameOrDefault(req.Game),
		Weights: req.Weights,
	}
	if err := s.presets.Create(r.Context(), preset); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, preset)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	game := gameOrDefault(domain.Game(r.URL.Query().Get("game")))
	presets, err := s.presets.List(r.Context(), game)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if presets == nil {
		presets = []domain.WeightPreset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets})
}

func (s *Server) presetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid preset id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.presetID(w, r)
	if !ok {
		return
	}
	preset, err := s.presets.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preset)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.presetID(w, r)
	if !ok {
		return
	}
	var req presetRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	preset := &domain.WeightPreset{
		ID:      id,
		Name:    req.Name,
		Game:    gameOrDefault(req.Game),
		Weights: req.Weights,
	}
	if err := s.presets.Update(r.Context(), preset); err != nil {
		if errors.Is(err, repository.ErrPresetNotFound) {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, preset)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.presetID(w, r)
	if !ok {
		return
	}
	if err := s.presets.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
