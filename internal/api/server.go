package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/auth"
	"github.com/kmartindale/SceneIt/internal/cache"
	"github.com/kmartindale/SceneIt/internal/config"
	"github.com/kmartindale/SceneIt/internal/db"
	"github.com/kmartindale/SceneIt/internal/importer"
	"github.com/kmartindale/SceneIt/internal/jobs"
	"github.com/kmartindale/SceneIt/internal/models"
	"github.com/kmartindale/SceneIt/internal/repository"
	"github.com/kmartindale/SceneIt/internal/wikidata"
)

type Server struct {
	config       *config.Config
	db           *db.DB
	auth         *auth.Auth
	userRepo     *repository.UserRepository
	showRepo     *repository.ShowRepository
	serviceRepo  *repository.ServiceRepository
	tagRepo      *repository.TagRepository
	actorRepo    *repository.ActorRepository
	entryRepo    *repository.EntryRepository
	ratingRepo   *repository.RatingRepository
	followRepo   *repository.FollowRepository
	activityRepo *repository.ActivityRepository
	settingsRepo *repository.SettingsRepository
	wikidata     *wikidata.Client
	builder      *importer.Builder
	importer     *importer.Importer
	jobQueue     *jobs.Queue
	wsHub        *WSHub
	router       *http.ServeMux
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewServer(cfg *config.Config, database *db.DB, responseCache *cache.Cache, jobQueue *jobs.Queue) (*Server, error) {
	authService, err := auth.NewAuth(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		return nil, err
	}

	wd := wikidata.NewClient(cfg.WikidataURL, responseCache,
		time.Duration(cfg.SearchCacheTTL)*time.Second,
		time.Duration(cfg.EntityCacheTTL)*time.Second)

	showRepo := repository.NewShowRepository(database.DB)
	builder := importer.NewBuilder(wd)

	s := &Server{
		config:       cfg,
		db:           database,
		auth:         authService,
		userRepo:     repository.NewUserRepository(database.DB),
		showRepo:     showRepo,
		serviceRepo:  repository.NewServiceRepository(database.DB),
		tagRepo:      repository.NewTagRepository(database.DB),
		actorRepo:    repository.NewActorRepository(database.DB),
		entryRepo:    repository.NewEntryRepository(database.DB),
		ratingRepo:   repository.NewRatingRepository(database.DB),
		followRepo:   repository.NewFollowRepository(database.DB),
		activityRepo: repository.NewActivityRepository(database.DB),
		settingsRepo: repository.NewSettingsRepository(database.DB),
		wikidata:     wd,
		builder:      builder,
		importer:     importer.NewImporter(showRepo, jobs.NewEmbeddingNotifier(jobQueue)),
		jobQueue:     jobQueue,
		wsHub:        NewWSHub(),
		router:       http.NewServeMux(),
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) Builder() *importer.Builder {
	return s.builder
}

func (s *Server) ShowRepo() *repository.ShowRepository {
	return s.showRepo
}

func (s *Server) setupRoutes() {
	// Static frontend assets
	s.router.Handle("/", http.FileServer(http.Dir("web")))

	// Public
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("POST /api/v1/auth/register", s.rlAuth(s.handleRegister))
	s.router.HandleFunc("POST /api/v1/auth/login", s.rlAuth(s.handleLogin))

	// WebSocket activity stream
	s.router.HandleFunc("GET /api/v1/ws", s.handleWebSocket)

	// Profile
	s.router.HandleFunc("GET /api/v1/profile", s.authMiddleware(s.handleGetProfile, models.RoleUser))

	// Catalog
	s.router.HandleFunc("GET /api/v1/shows", s.authMiddleware(s.handleListShows, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/shows/{id}", s.authMiddleware(s.handleGetShow, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/shows/{id}/cast", s.authMiddleware(s.handleShowCast, models.RoleUser))
	s.router.HandleFunc("POST /api/v1/shows/{id}/cast", s.authMiddleware(s.handleLinkCast, models.RoleAdmin))
	s.router.HandleFunc("DELETE /api/v1/shows/{id}/cast/{actorId}", s.authMiddleware(s.handleUnlinkCast, models.RoleAdmin))
	s.router.HandleFunc("GET /api/v1/services", s.authMiddleware(s.handleListServices, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/tags", s.authMiddleware(s.handleListTags, models.RoleUser))

	// Actors
	s.router.HandleFunc("GET /api/v1/actors", s.authMiddleware(s.handleListActors, models.RoleUser))
	s.router.HandleFunc("POST /api/v1/actors", s.authMiddleware(s.handleCreateActor, models.RoleAdmin))
	s.router.HandleFunc("GET /api/v1/actors/{id}", s.authMiddleware(s.handleGetActor, models.RoleUser))

	// Tracking
	s.router.HandleFunc("GET /api/v1/entries", s.authMiddleware(s.handleListEntries, models.RoleUser))
	s.router.HandleFunc("PUT /api/v1/shows/{id}/entry", s.authMiddleware(s.handleUpsertEntry, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/shows/{id}/entry", s.authMiddleware(s.handleDeleteEntry, models.RoleUser))

	// Ratings
	s.router.HandleFunc("PUT /api/v1/shows/{id}/rating", s.authMiddleware(s.handleRateShow, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/shows/{id}/rating", s.authMiddleware(s.handleDeleteRating, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/shows/{id}/rating", s.authMiddleware(s.handleGetRating, models.RoleUser))

	// Social
	s.router.HandleFunc("GET /api/v1/users", s.authMiddleware(s.handleSearchUsers, models.RoleUser))
	s.router.HandleFunc("POST /api/v1/users/{id}/follow", s.authMiddleware(s.handleFollow, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/users/{id}/follow", s.authMiddleware(s.handleUnfollow, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/users/{id}/followers", s.authMiddleware(s.handleFollowers, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/users/{id}/following", s.authMiddleware(s.handleFollowing, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/feed", s.authMiddleware(s.handleFeed, models.RoleUser))

	// Admin
	s.router.HandleFunc("GET /api/v1/admin/settings", s.authMiddleware(s.handleGetSettings, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/settings/{key}", s.authMiddleware(s.handleSetSetting, models.RoleAdmin))
	s.router.HandleFunc("POST /api/v1/admin/jobs/refresh-airing", s.authMiddleware(s.handleRefreshAiring, models.RoleAdmin))

	// Import pipeline
	s.router.HandleFunc("GET /api/v1/import/search", s.authMiddleware(s.rlSearch(s.handleImportSearch), models.RoleUser))
	s.router.HandleFunc("GET /api/v1/import/preview/{id}", s.authMiddleware(s.handleImportPreview, models.RoleUser))
	s.router.HandleFunc("POST /api/v1/import", s.authMiddleware(s.handleImportCommit, models.RoleUser))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ──────────────────── Middleware ────────────────────

func (s *Server) authMiddleware(next http.HandlerFunc, requiredRole models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if t := r.URL.Query().Get("token"); t != "" {
			// WebSocket clients can't set headers
			tokenString = t
		} else {
			s.respondError(w, http.StatusUnauthorized, "missing authorization")
			return
		}

		claims, err := s.auth.ValidateToken(tokenString)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if !s.auth.CheckPermission(claims.Role, requiredRole) {
			s.respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		r.Header.Set("X-User-ID", claims.UserID.String())
		r.Header.Set("X-User-Role", string(claims.Role))
		next(w, r)
	}
}

// ──────────────────── Helpers ────────────────────

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, Response{Success: false, Error: message})
}

func (s *Server) getUserID(r *http.Request) uuid.UUID {
	id, _ := uuid.Parse(r.Header.Get("X-User-ID"))
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
