package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

// EntryRepository tracks per-user show state (watchlist, watching, etc).
type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Upsert(e *models.ShowEntry) error {
	query := `INSERT INTO show_entries (user_id, show_id, status, season)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, show_id) DO UPDATE SET status = $3, season = $4, updated_at = NOW()
		RETURNING updated_at`
	return r.db.QueryRow(query, e.UserID, e.ShowID, e.Status, e.Season).Scan(&e.UpdatedAt)
}

func (r *EntryRepository) Delete(userID, showID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM show_entries WHERE user_id = $1 AND show_id = $2`, userID, showID)
	return err
}

func (r *EntryRepository) Get(userID, showID uuid.UUID) (*models.ShowEntry, error) {
	e := &models.ShowEntry{}
	err := r.db.QueryRow(`SELECT user_id, show_id, status, season, updated_at
		FROM show_entries WHERE user_id = $1 AND show_id = $2`, userID, showID).
		Scan(&e.UserID, &e.ShowID, &e.Status, &e.Season, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListByUser returns a user's tracked shows, optionally filtered by status,
// newest first, with the show row attached.
func (r *EntryRepository) ListByUser(userID uuid.UUID, status models.WatchStatus) ([]*models.ShowEntry, error) {
	query := `SELECT e.user_id, e.show_id, e.status, e.season, e.updated_at,
		s.id, s.name, s.release_date, s.running, s.total_seasons, s.limited_series,
		s.airing, s.service_id, s.picture_url, s.created_at, s.updated_at
		FROM show_entries e JOIN shows s ON s.id = e.show_id
		WHERE e.user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND e.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY e.updated_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ShowEntry
	for rows.Next() {
		e := &models.ShowEntry{Show: &models.Show{}}
		s := e.Show
		err := rows.Scan(&e.UserID, &e.ShowID, &e.Status, &e.Season, &e.UpdatedAt,
			&s.ID, &s.Name, &s.ReleaseDate, &s.Running, &s.TotalSeasons, &s.LimitedSeries,
			&s.Airing, &s.ServiceID, &s.PictureURL, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
