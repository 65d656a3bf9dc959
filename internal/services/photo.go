package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"

	"github.com/google/uuid"
)

// PhotoService manages a user's photo set and the main-photo invariant
type PhotoService struct {
	photos PhotoStore
	assets AssetStore
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, assets AssetStore) *PhotoService {
	return &PhotoService{
		photos: photos,
		assets: assets,
	}
}

// Upload stores the photo bytes with the external asset host, then records
// the photo. The first photo an owner adds becomes their main photo; the
// store decides that atomically at insert time.
func (s *PhotoService) Upload(ctx context.Context, ownerID, filename, contentType string, body io.Reader) (*models.Photo, error) {
	photoID := uuid.New().String()

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", ownerID, photoID, ext)

	url, err := s.assets.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo asset: %w", err)
	}

	photo := &models.Photo{
		ID:          photoID,
		OwnerID:     ownerID,
		URL:         url,
		IsApproved:  true,
		ExternalRef: key,
		AddedAt:     time.Now(),
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Get returns a single photo by id
func (s *PhotoService) Get(ctx context.Context, id string) (*models.Photo, error) {
	return s.photos.GetByID(ctx, id)
}

// List returns one page of a user's photos, newest first. Owners see their
// unapproved photos too.
func (s *PhotoService) List(ctx context.Context, ownerID, viewerID string, p pagination.Params) (pagination.Page[*models.Photo], error) {
	photos, err := s.photos.ListByOwner(ctx, ownerID, viewerID == ownerID)
	if err != nil {
		return pagination.Page[*models.Photo]{}, err
	}
	return pagination.Slice(photos, p), nil
}

// SetMain makes the photo the owner's main photo, demoting the previous
// one in the same transaction.
func (s *PhotoService) SetMain(ctx context.Context, ownerID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.OwnerID != ownerID {
		return fmt.Errorf("photo %s does not belong to user %s: %w", photoID, ownerID, apperrors.ErrUnauthorized)
	}

	return s.photos.SetMain(ctx, ownerID, photoID)
}

// Delete removes a photo. The main photo cannot be deleted; pick another
// main first. When the photo lives on the asset host, the hosted asset is
// removed before the local row, so a host failure leaves the photo intact.
func (s *PhotoService) Delete(ctx context.Context, ownerID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.OwnerID != ownerID {
		return fmt.Errorf("photo %s does not belong to user %s: %w", photoID, ownerID, apperrors.ErrUnauthorized)
	}
	if photo.IsMain {
		return fmt.Errorf("cannot delete the main photo: %w", apperrors.ErrInvalidInput)
	}

	if photo.ExternalRef != "" {
		if err := s.assets.Remove(ctx, photo.ExternalRef); err != nil {
			return fmt.Errorf("failed to remove photo asset: %w", err)
		}
	}

	return s.photos.Delete(ctx, photoID)
}
