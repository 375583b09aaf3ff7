package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	status := models.WatchStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	entries, err := s.entryRepo.ListByUser(s.getUserID(r), status)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}

func (s *Server) handleUpsertEntry(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	var req struct {
		Status models.WatchStatus `json:"status"`
		Season int                `json:"season"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Season < 1 {
		req.Season = 1
	}

	entry := &models.ShowEntry{
		UserID: s.getUserID(r),
		ShowID: showID,
		Status: req.Status,
		Season: req.Season,
	}
	if err := s.entryRepo.Upsert(entry); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordActivity(entry.UserID, showID, "status", string(req.Status))
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: entry})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	if err := s.entryRepo.Delete(s.getUserID(r), showID); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

// ──────────────────── Ratings ────────────────────

func (s *Server) handleRateShow(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	var req struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Score < 1 || req.Score > 10 {
		s.respondError(w, http.StatusBadRequest, "score must be between 1 and 10")
		return
	}

	rating := &models.Rating{UserID: s.getUserID(r), ShowID: showID, Score: req.Score}
	if err := s.ratingRepo.Upsert(rating); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordActivity(rating.UserID, showID, "rated", fmt.Sprintf("%d", req.Score))
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: rating})
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	if err := s.ratingRepo.Delete(s.getUserID(r), showID); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	mine, err := s.ratingRepo.Get(s.getUserID(r), showID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	avg, count, err := s.ratingRepo.CommunityAverage(showID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"mine":    mine,
		"average": avg,
		"count":   count,
	}})
}

// recordActivity writes a feed row and pushes it to connected followers.
// Feed bookkeeping is never allowed to fail a user action.
func (s *Server) recordActivity(userID, showID uuid.UUID, kind, detail string) {
	var d *string
	if detail != "" {
		d = &detail
	}
	if err := s.activityRepo.Insert(userID, showID, kind, d); err != nil {
		log.Printf("api: record activity: %v", err)
		return
	}
	s.wsHub.Broadcast("activity", map[string]interface{}{
		"user_id": userID,
		"show_id": showID,
		"kind":    kind,
		"detail":  detail,
	})
}
