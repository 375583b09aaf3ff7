package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// WatchStatus is a user's tracking state for a show.
type WatchStatus string

const (
	StatusWatchlist WatchStatus = "watchlist"
	StatusWatching  WatchStatus = "watching"
	StatusCompleted WatchStatus = "completed"
	StatusDropped   WatchStatus = "dropped"
)

func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWatchlist, StatusWatching, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// RefSource identifies the third-party system an external reference points at.
type RefSource string

const (
	SourceWikidata  RefSource = "wikidata"
	SourceWikipedia RefSource = "wikipedia"
)

// ──────────────────── User ────────────────────

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ──────────────────── Show ────────────────────

type Show struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	ReleaseDate   *time.Time `json:"release_date,omitempty" db:"release_date"`
	Running       bool       `json:"running" db:"running"`
	TotalSeasons  int        `json:"total_seasons" db:"total_seasons"`
	LimitedSeries bool       `json:"limited_series" db:"limited_series"`
	Airing        bool       `json:"airing" db:"airing"`
	// Primary service is a legacy scalar kept for older schema consumers;
	// the full set lives in show_services.
	ServiceID  int       `json:"service_id" db:"service_id"`
	PictureURL *string   `json:"picture_url,omitempty" db:"picture_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Populated by detail queries, not stored on the row.
	Services     []*Service     `json:"services,omitempty" db:"-"`
	Tags         []*Tag         `json:"tags,omitempty" db:"-"`
	ExternalRefs []*ExternalRef `json:"external_refs,omitempty" db:"-"`
}

// ExternalRef records the provenance of an imported show.
type ExternalRef struct {
	ID         int       `json:"id" db:"id"`
	ShowID     uuid.UUID `json:"show_id" db:"show_id"`
	Source     RefSource `json:"source" db:"source"`
	ExternalID string    `json:"external_id" db:"external_id"`
	URL        *string   `json:"url,omitempty" db:"url"`
}

// ──────────────────── Canonical vocabularies ────────────────────

type Service struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Tag struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
}

// ──────────────────── Actors ────────────────────

type Actor struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	PictureURL *string   `json:"picture_url,omitempty" db:"picture_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CastMember struct {
	Actor
	Character *string `json:"character,omitempty" db:"character_name"`
}

// ──────────────────── Per-user show state ────────────────────

type ShowEntry struct {
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	ShowID    uuid.UUID   `json:"show_id" db:"show_id"`
	Status    WatchStatus `json:"status" db:"status"`
	Season    int         `json:"season" db:"season"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`

	Show *Show `json:"show,omitempty" db:"-"`
}

type Rating struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ShowID    uuid.UUID `json:"show_id" db:"show_id"`
	Score     int       `json:"score" db:"score"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ──────────────────── Social ────────────────────

type Follow struct {
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	FolloweeID uuid.UUID `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ActivityItem is one row of the social feed.
type ActivityItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	ShowID    uuid.UUID `json:"show_id" db:"show_id"`
	ShowName  string    `json:"show_name" db:"show_name"`
	Kind      string    `json:"kind" db:"kind"` // rated | status | imported
	Detail    *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
