package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kmartindale/SceneIt/internal/models"
)

type ShowRepository struct {
	db *sql.DB
}

func NewShowRepository(db *sql.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

const showColumns = `id, name, release_date, running, total_seasons, limited_series, airing, service_id, picture_url, created_at, updated_at`

func scanShow(row interface{ Scan(...interface{}) error }) (*models.Show, error) {
	s := &models.Show{}
	err := row.Scan(&s.ID, &s.Name, &s.ReleaseDate, &s.Running, &s.TotalSeasons,
		&s.LimitedSeries, &s.Airing, &s.ServiceID, &s.PictureURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ShowRepository) CreateShow(s *models.Show) error {
	query := `INSERT INTO shows (id, name, release_date, running, total_seasons, limited_series, airing, service_id, picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	return r.db.QueryRow(query, s.ID, s.Name, s.ReleaseDate, s.Running, s.TotalSeasons,
		s.LimitedSeries, s.Airing, s.ServiceID, s.PictureURL).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ShowRepository) GetByID(id uuid.UUID) (*models.Show, error) {
	s, err := scanShow(r.db.QueryRow(`SELECT `+showColumns+` FROM shows WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("show not found")
	}
	if err != nil {
		return nil, err
	}

	if s.Services, err = r.showServices(id); err != nil {
		return nil, err
	}
	if s.Tags, err = r.showTags(id); err != nil {
		return nil, err
	}
	if s.ExternalRefs, err = r.showExternalRefs(id); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns a page of the catalog, optionally filtered by a name substring.
func (r *ShowRepository) List(search string, limit, offset int) ([]*models.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows`
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

func (r *ShowRepository) showServices(showID uuid.UUID) ([]*models.Service, error) {
	rows, err := r.db.Query(`SELECT s.id, s.name FROM services s
		JOIN show_services ss ON ss.service_id = s.id WHERE ss.show_id = $1 ORDER BY s.name`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s := &models.Service{}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ShowRepository) showTags(showID uuid.UUID) ([]*models.Tag, error) {
	rows, err := r.db.Query(`SELECT t.id, t.name, t.category FROM tags t
		JOIN show_tags st ON st.tag_id = t.id WHERE st.show_id = $1 ORDER BY t.name`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Category); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *ShowRepository) showExternalRefs(showID uuid.UUID) ([]*models.ExternalRef, error) {
	rows, err := r.db.Query(`SELECT id, show_id, source, external_id, url
		FROM show_external_refs WHERE show_id = $1 ORDER BY id`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*models.ExternalRef
	for rows.Next() {
		ref := &models.ExternalRef{}
		if err := rows.Scan(&ref.ID, &ref.ShowID, &ref.Source, &ref.ExternalID, &ref.URL); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ──────────────────── Import surface ────────────────────

// FindShowIDByExternalRef is the duplicate guard's point lookup.
func (r *ShowRepository) FindShowIDByExternalRef(source models.RefSource, externalID string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(`SELECT show_id FROM show_external_refs WHERE source = $1 AND external_id = $2`,
		source, externalID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// OtherServiceID resolves the sentinel "Other" service seeded by migration.
func (r *ShowRepository) OtherServiceID() (int, error) {
	var id int
	err := r.db.QueryRow(`SELECT id FROM services WHERE name = 'Other'`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sentinel service missing: %w", err)
	}
	return id, nil
}

func (r *ShowRepository) AddShowServices(showID uuid.UUID, serviceIDs []int) error {
	_, err := r.db.Exec(`INSERT INTO show_services (show_id, service_id)
		SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`, showID, pq.Array(serviceIDs))
	return err
}

func (r *ShowRepository) AddShowTags(showID uuid.UUID, tagIDs []int) error {
	_, err := r.db.Exec(`INSERT INTO show_tags (show_id, tag_id)
		SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`, showID, pq.Array(tagIDs))
	return err
}

func (r *ShowRepository) AddExternalRef(ref *models.ExternalRef) error {
	return r.db.QueryRow(`INSERT INTO show_external_refs (show_id, source, external_id, url)
		VALUES ($1, $2, $3, $4) RETURNING id`, ref.ShowID, ref.Source, ref.ExternalID, ref.URL).Scan(&ref.ID)
}

// ──────────────────── Airing refresh surface ────────────────────

// AiringRef pairs a show with its knowledge-base id for the scheduled
// end-date refresh.
type AiringRef struct {
	ShowID     uuid.UUID
	ExternalID string
}

func (r *ShowRepository) ListRunningWithWikidataRef() ([]AiringRef, error) {
	rows, err := r.db.Query(`SELECT s.id, ref.external_id FROM shows s
		JOIN show_external_refs ref ON ref.show_id = s.id AND ref.source = $1
		WHERE s.running = TRUE`, models.SourceWikidata)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AiringRef
	for rows.Next() {
		var a AiringRef
		if err := rows.Scan(&a.ShowID, &a.ExternalID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkEnded flips a show to not-running once the knowledge base carries an
// end date, adopting that date as the release date when known.
func (r *ShowRepository) MarkEnded(showID uuid.UUID, endDate *time.Time) error {
	_, err := r.db.Exec(`UPDATE shows SET running = FALSE, release_date = COALESCE($2, release_date), updated_at = NOW()
		WHERE id = $1`, showID, endDate)
	return err
}
