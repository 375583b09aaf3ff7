package repository

import (
	"database/sql"
	"fmt"

	"github.com/kmartindale/SceneIt/internal/models"
)

// ServiceRepository reads the canonical streaming-service vocabulary. The
// import pipeline treats it as read-only.
type ServiceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List() ([]*models.Service, error) {
	rows, err := r.db.Query(`SELECT id, name FROM services ORDER BY id`)
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

func (r *ServiceRepository) GetByID(id int) (*models.Service, error) {
	s := &models.Service{}
	err := r.db.QueryRow(`SELECT id, name FROM services WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service not found")
	}
	return s, err
}

// TagRepository reads the canonical tag vocabulary.
type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(category string) ([]*models.Tag, error) {
	query := `SELECT id, name, category FROM tags`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
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
