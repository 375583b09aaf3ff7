package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

// FollowRepository manages follow edges between users.
type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Follow(followerID, followeeID uuid.UUID) error {
	_, err := r.db.Exec(`INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`, followerID, followeeID)
	return err
}

func (r *FollowRepository) Unfollow(followerID, followeeID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	return err
}

func (r *FollowRepository) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	return exists, err
}

// follows also carries created_at, so joined selects must qualify every
// user column.
const userColumnsQualified = `u.id, u.username, u.email, u.password_hash, u.display_name, u.role, u.is_active, u.created_at, u.updated_at`

func (r *FollowRepository) listUsers(query string, id uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *FollowRepository) Followers(userID uuid.UUID) ([]*models.User, error) {
	return r.listUsers(`SELECT `+userColumnsQualified+` FROM users u
		JOIN follows f ON f.follower_id = u.id WHERE f.followee_id = $1 ORDER BY u.username`, userID)
}

func (r *FollowRepository) Following(userID uuid.UUID) ([]*models.User, error) {
	return r.listUsers(`SELECT `+userColumnsQualified+` FROM users u
		JOIN follows f ON f.followee_id = u.id WHERE f.follower_id = $1 ORDER BY u.username`, userID)
}

// ActivityRepository writes and reads the social feed.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(userID, showID uuid.UUID, kind string, detail *string) error {
	_, err := r.db.Exec(`INSERT INTO activity (user_id, show_id, kind, detail)
		VALUES ($1, $2, $3, $4)`, userID, showID, kind, detail)
	return err
}

// Feed returns the most recent activity of the users the viewer follows.
func (r *ActivityRepository) Feed(viewerID uuid.UUID, limit int) ([]*models.ActivityItem, error) {
	rows, err := r.db.Query(`SELECT a.id, a.user_id, u.username, a.show_id, s.name, a.kind, a.detail, a.created_at
		FROM activity a
		JOIN users u ON u.id = a.user_id
		JOIN shows s ON s.id = a.show_id
		JOIN follows f ON f.followee_id = a.user_id
		WHERE f.follower_id = $1
		ORDER BY a.created_at DESC LIMIT $2`, viewerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ActivityItem
	for rows.Next() {
		item := &models.ActivityItem{}
		err := rows.Scan(&item.ID, &item.UserID, &item.Username, &item.ShowID,
			&item.ShowName, &item.Kind, &item.Detail, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
