package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cefilm-backend/internal/models"
)

// CommunityRepository reads ratings and discussions for the dashboard.
type CommunityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// ListRatings returns the account's ratings, newest first.
func (r *CommunityRepository) ListRatings(ctx context.Context, accountID string, limit int) ([]models.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, movie_title, imdb_id, score, review, created_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var (
			rt             models.Rating
			imdbID, review sql.NullString
		)
		if err := rows.Scan(&rt.ID, &rt.AccountID, &rt.MovieTitle, &imdbID, &rt.Score, &review, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		rt.IMDbID = imdbID.String
		rt.Review = review.String
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// ListDiscussions returns the account's posts, newest first.
func (r *CommunityRepository) ListDiscussions(ctx context.Context, accountID string, limit int) ([]models.Discussion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, topic, body, created_at
		FROM discussions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query discussions: %w", err)
	}
	defer rows.Close()

	discussions := []models.Discussion{}
	for rows.Next() {
		var d models.Discussion
		if err := rows.Scan(&d.ID, &d.AccountID, &d.Topic, &d.Body, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discussion: %w", err)
		}
		discussions = append(discussions, d)
	}
	return discussions, rows.Err()
}
