package api

import (
	"encoding/json"
	"net/http"

	"github.com/kmartindale/SceneIt/internal/jobs"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsRepo.All()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: settings})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.settingsRepo.Set(key, req.Value); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Changes take effect on handlers that re-read config, and fully on
	// the next restart.
	s.config.MergeFromDB(s.db.DB)
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

// handleRefreshAiring lets an admin kick the nightly airing-status sweep
// without waiting for the cron schedule.
func (s *Server) handleRefreshAiring(w http.ResponseWriter, r *http.Request) {
	if err := s.jobQueue.Enqueue(jobs.TaskRefreshAiring, jobs.RefreshAiringPayload{}); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusAccepted, Response{Success: true})
}
