package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

func (s *Server) handleListActors(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit > 200 {
		limit = 200
	}

	actors, err := s.actorRepo.List(search, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: actors})
}

func (s *Server) handleCreateActor(w http.ResponseWriter, r *http.Request) {
	var a models.Actor
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if a.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	a.ID = uuid.New()
	if err := s.actorRepo.Create(&a); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, Response{Success: true, Data: a})
}

func (s *Server) handleGetActor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid actor id")
		return
	}
	actor, err := s.actorRepo.GetByID(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "actor not found")
		return
	}
	shows, err := s.actorRepo.ActorShows(id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"actor": actor,
		"shows": shows,
	}})
}
