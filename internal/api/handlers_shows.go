package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

func (s *Server) handleListShows(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit > 200 {
		limit = 200
	}

	shows, err := s.showRepo.List(search, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: shows})
}

func (s *Server) handleGetShow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	show, err := s.showRepo.GetByID(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "show not found")
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: show})
}

func (s *Server) handleShowCast(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	cast, err := s.actorRepo.ShowCast(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: cast})
}

func (s *Server) handleLinkCast(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	var req struct {
		ActorID   uuid.UUID `json:"actor_id"`
		Character *string   `json:"character,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.actorRepo.LinkToShow(showID, req.ActorID, req.Character); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleUnlinkCast(w http.ResponseWriter, r *http.Request) {
	showID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	actorID, err := uuid.Parse(r.PathValue("actorId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid actor id")
		return
	}
	if err := s.actorRepo.UnlinkFromShow(showID, actorID); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.serviceRepo.List()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: services})
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagRepo.List(r.URL.Query().Get("category"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: tags})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return fallback
}
