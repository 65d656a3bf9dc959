package repository

import (
	"context"
	"fmt"

	"matchly-backend/internal/apperrors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles database operations for the directed like graph
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Insert adds a directed edge. The composite primary key on
// (liker_id, likee_id) rejects duplicates atomically, so concurrent inserts
// of the same pair cannot both succeed.
func (r *LikeRepository) Insert(ctx context.Context, likerID, likeeID string) error {
	query := `INSERT INTO likes (liker_id, likee_id) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, likerID, likeeID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("like %s -> %s already exists: %w", likerID, likeeID, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

// Likers returns the ids of users holding an edge pointing at userID
func (r *LikeRepository) Likers(ctx context.Context, userID string) ([]string, error) {
	return r.project(ctx, `SELECT liker_id FROM likes WHERE likee_id = $1 ORDER BY liker_id`, userID)
}

// Likees returns the ids of users userID points at
func (r *LikeRepository) Likees(ctx context.Context, userID string) ([]string, error) {
	return r.project(ctx, `SELECT likee_id FROM likes WHERE liker_id = $1 ORDER BY likee_id`, userID)
}

func (r *LikeRepository) project(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}
	return ids, nil
}
