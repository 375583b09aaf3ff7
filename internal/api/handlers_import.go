package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kmartindale/SceneIt/internal/importer"
)

func (s *Server) handleImportSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	candidates := s.wikidata.Search(r.Context(), query)
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: candidates})
}

// previewResponse carries the draft plus everything the confirmation screen
// needs to render pre-filled checkboxes.
type previewResponse struct {
	Draft               *importer.Draft `json:"draft"`
	SuggestedServiceIDs []int           `json:"suggested_service_ids"`
	SuggestedTagIDs     []int           `json:"suggested_tag_ids"`
}

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	externalID := r.PathValue("id")
	if !strings.HasPrefix(externalID, "Q") {
		s.respondError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	draft, err := s.builder.BuildDraft(r.Context(), externalID)
	if errors.Is(err, importer.ErrEntityNotFound) {
		s.respondError(w, http.StatusNotFound, "entity not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "metadata source unavailable")
		return
	}

	resp := previewResponse{Draft: draft}

	// The matcher output is a pre-filled suggestion for the user to edit,
	// never an authoritative assignment.
	if services, err := s.serviceRepo.List(); err == nil {
		candidates := make([]importer.Candidate, len(services))
		for i, svc := range services {
			candidates[i] = importer.Candidate{ID: svc.ID, Name: svc.Name}
		}
		resp.SuggestedServiceIDs = importer.MatchSuggestions(draft.SuggestedServiceNames, candidates)
	}
	if tags, err := s.tagRepo.List("genre"); err == nil {
		candidates := make([]importer.Candidate, len(tags))
		for i, tag := range tags {
			candidates[i] = importer.Candidate{ID: tag.ID, Name: tag.Name}
		}
		resp.SuggestedTagIDs = importer.MatchSuggestions(draft.SuggestedTagNames, candidates)
	}

	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: resp})
}

func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	var payload importer.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	showID, err := s.importer.Commit(&payload)
	if err != nil {
		var dup *importer.DuplicateError
		if errors.As(err, &dup) {
			s.respondJSON(w, http.StatusConflict, Response{
				Success: false,
				Error:   "already exists",
				Data:    map[string]interface{}{"existing_show_id": dup.ExistingShowID},
			})
			return
		}
		s.respondError(w, http.StatusInternalServerError, "failed to create show")
		return
	}

	s.recordActivity(s.getUserID(r), showID, "imported", payload.Name)

	redirect := "/show/" + showID.String()
	w.Header().Set("Location", redirect)
	s.respondJSON(w, http.StatusCreated, Response{Success: true, Data: map[string]interface{}{
		"id":       showID,
		"redirect": redirect,
	}})
}
