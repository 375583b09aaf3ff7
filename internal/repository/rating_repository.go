package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Upsert(rating *models.Rating) error {
	query := `INSERT INTO ratings (user_id, show_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, show_id) DO UPDATE SET score = $3, updated_at = NOW()
		RETURNING updated_at`
	return r.db.QueryRow(query, rating.UserID, rating.ShowID, rating.Score).Scan(&rating.UpdatedAt)
}

func (r *RatingRepository) Delete(userID, showID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM ratings WHERE user_id = $1 AND show_id = $2`, userID, showID)
	return err
}

func (r *RatingRepository) Get(userID, showID uuid.UUID) (*models.Rating, error) {
	rating := &models.Rating{}
	err := r.db.QueryRow(`SELECT user_id, show_id, score, updated_at
		FROM ratings WHERE user_id = $1 AND show_id = $2`, userID, showID).
		Scan(&rating.UserID, &rating.ShowID, &rating.Score, &rating.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// CommunityAverage returns the mean score and vote count for a show.
func (r *RatingRepository) CommunityAverage(showID uuid.UUID) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRow(`SELECT AVG(score), COUNT(*) FROM ratings WHERE show_id = $1`, showID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
