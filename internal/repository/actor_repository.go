package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

type ActorRepository struct {
	db *sql.DB
}

func NewActorRepository(db *sql.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) Create(a *models.Actor) error {
	return r.db.QueryRow(`INSERT INTO actors (id, name, picture_url)
		VALUES ($1, $2, $3) RETURNING created_at`, a.ID, a.Name, a.PictureURL).Scan(&a.CreatedAt)
}

func (r *ActorRepository) GetByID(id uuid.UUID) (*models.Actor, error) {
	a := &models.Actor{}
	err := r.db.QueryRow(`SELECT id, name, picture_url, created_at FROM actors WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.PictureURL, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("actor not found")
	}
	return a, err
}

func (r *ActorRepository) List(search string, limit, offset int) ([]*models.Actor, error) {
	query := `SELECT id, name, picture_url, created_at FROM actors`
	var args []interface{}
	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actors []*models.Actor
	for rows.Next() {
		a := &models.Actor{}
		if err := rows.Scan(&a.ID, &a.Name, &a.PictureURL, &a.CreatedAt); err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, rows.Err()
}

func (r *ActorRepository) LinkToShow(showID, actorID uuid.UUID, character *string) error {
	_, err := r.db.Exec(`INSERT INTO show_actors (show_id, actor_id, character_name)
		VALUES ($1, $2, $3) ON CONFLICT (show_id, actor_id) DO UPDATE SET character_name = $3`,
		showID, actorID, character)
	return err
}

func (r *ActorRepository) UnlinkFromShow(showID, actorID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM show_actors WHERE show_id = $1 AND actor_id = $2`, showID, actorID)
	return err
}

func (r *ActorRepository) ShowCast(showID uuid.UUID) ([]*models.CastMember, error) {
	rows, err := r.db.Query(`SELECT a.id, a.name, a.picture_url, a.created_at, sa.character_name
		FROM actors a JOIN show_actors sa ON sa.actor_id = a.id
		WHERE sa.show_id = $1 ORDER BY a.name`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cast []*models.CastMember
	for rows.Next() {
		m := &models.CastMember{}
		if err := rows.Scan(&m.ID, &m.Name, &m.PictureURL, &m.CreatedAt, &m.Character); err != nil {
			return nil, err
		}
		cast = append(cast, m)
	}
	return cast, rows.Err()
}

// ActorShows lists the shows an actor appears in.
func (r *ActorRepository) ActorShows(actorID uuid.UUID) ([]*models.Show, error) {
	rows, err := r.db.Query(`SELECT `+showColumns+` FROM shows
		JOIN show_actors sa ON sa.show_id = shows.id WHERE sa.actor_id = $1 ORDER BY name`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shows []*models.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	return shows, rows.Err()
}
