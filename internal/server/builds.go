package server

import (
	"fmt"
	"net/http"

	"exile-tracker/internal/domain"
	"exile-tracker/internal/service"
)

type importRequest struct {
	Code string      `json:"code"`
	Game domain.Game `json:"game,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}
	game := gameOrDefault(req.Game)
	if game != domain.GamePoE1 && game != domain.GamePoE2 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown game %q", game)})
		return
	}

	build, err := s.builds.Import(r.Context(), req.Code, game)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, build)
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	build, err := s.builds.Get(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, build)
}

func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := s.builds.Delete(r.Context(), r.PathValue("sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.builds.Analyze(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type rankRequest struct {
	Slots []service.RankRequest `json:"slots"`
}

func (s *Server) rankSlots(w http.ResponseWriter, r *http.Request) ([]service.SlotResult, bool) {
	var req rankRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return nil, false
	}
	if len(req.Slots) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at least one slot is required"})
		return nil, false
	}

	results, err := s.upgrades.RankSlots(r.Context(), r.PathValue("sessionID"), req.Slots)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return results, true
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	results, ok := s.rankSlots(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
