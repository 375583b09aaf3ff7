package api

import (
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	users, err := s.userRepo.Search(prefix, 20)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	followeeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	followerID := s.getUserID(r)
	if followerID == followeeID {
		s.respondError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}
	if _, err := s.userRepo.GetByID(followeeID); err != nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := s.followRepo.Follow(followerID, followeeID); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	followeeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.followRepo.Unfollow(s.getUserID(r), followeeID); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	users, err := s.followRepo.Followers(userID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	users, err := s.followRepo.Following(userID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	items, err := s.activityRepo.Feed(s.getUserID(r), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}
