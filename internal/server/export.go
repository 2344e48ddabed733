package server

import (
	"fmt"
	"net/http"

	"exile-tracker/internal/export"
)

func (s *Server) handleRankExport(w http.ResponseWriter, r *http.Request) {
	results, ok := s.rankSlots(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("sessionID")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "upgrades-"+sessionID+".xlsx"))

	if err := export.WriteRankingXLSX(w, sessionID, results); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("xlsx export failed")
	}
}
