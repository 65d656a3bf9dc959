package services

import (
	"context"
	"fmt"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/pagination"
)

// LikeService maintains the directed like graph
type LikeService struct {
	users UserStore
	likes LikeStore
}

// NewLikeService creates a new like service
func NewLikeService(users UserStore, likes LikeStore) *LikeService {
	return &LikeService{
		users: users,
		likes: likes,
	}
}

// Like records a directed like from liker to likee. Liking yourself is
// rejected, liking a missing user is NotFound and liking the same user
// twice is a conflict, enforced atomically by the store.
func (s *LikeService) Like(ctx context.Context, likerID, likeeID string) error {
	if likerID == likeeID {
		return fmt.Errorf("cannot like yourself: %w", apperrors.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, likeeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s: %w", likeeID, apperrors.ErrNotFound)
	}

	return s.likes.Insert(ctx, likerID, likeeID)
}

// Likers returns one page of the ids that have liked the user
func (s *LikeService) Likers(ctx context.Context, userID string, p pagination.Params) (pagination.Page[string], error) {
	ids, err := s.likes.Likers(ctx, userID)
	if err != nil {
		return pagination.Page[string]{}, err
	}
	return pagination.Slice(ids, p), nil
}

// Likees returns one page of the ids the user has liked
func (s *LikeService) Likees(ctx context.Context, userID string, p pagination.Params) (pagination.Page[string], error) {
	ids, err := s.likes.Likees(ctx, userID)
	if err != nil {
		return pagination.Page[string]{}, err
	}
	return pagination.Slice(ids, p), nil
}
