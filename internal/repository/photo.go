package repository

import (
	"context"
	"errors"
	"fmt"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const photoColumns = `id, owner_id, url, is_main, is_approved, external_ref, added_at`

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create inserts a photo. Whether it becomes the main photo is decided
// inside the INSERT itself: the photo is main iff the owner has no main
// photo at that instant. A single statement keeps concurrent uploads from
// producing two main photos.
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, owner_id, url, is_main, is_approved, external_ref, added_at)
		VALUES ($1, $2, $3,
			NOT EXISTS(SELECT 1 FROM photos WHERE owner_id = $2 AND is_main),
			$4, $5, $6)
		RETURNING is_main
	`
	err := r.db.QueryRow(ctx, query,
		photo.ID, photo.OwnerID, photo.URL, photo.IsApproved, photo.ExternalRef, photo.AddedAt,
	).Scan(&photo.IsMain)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by ID, approved or not
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

	photo, err := scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// ListByOwner retrieves a user's photos, newest first. Unapproved photos
// are filtered out unless includeUnapproved is set (owner's own view).
func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID string, includeUnapproved bool) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE owner_id = $1`
	if !includeUnapproved {
		query += ` AND is_approved`
	}
	query += ` ORDER BY added_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

// MainPhotoURLs returns the approved main photo URL for each of the given
// owners that has one, in a single round trip.
func (r *PhotoRepository) MainPhotoURLs(ctx context.Context, ownerIDs []string) (map[string]string, error) {
	if len(ownerIDs) == 0 {
		return map[string]string{}, nil
	}

	query := `SELECT owner_id, url FROM photos WHERE is_main AND is_approved AND owner_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get main photo urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]string, len(ownerIDs))
	for rows.Next() {
		var ownerID, url string
		if err := rows.Scan(&ownerID, &url); err != nil {
			return nil, fmt.Errorf("failed to scan main photo url: %w", err)
		}
		urls[ownerID] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating main photo urls: %w", err)
	}
	return urls, nil
}

// SetMain makes the photo the owner's main photo. The whole swap runs in
// one transaction with the target row locked, so two concurrent swaps
// cannot leave the owner with two main photos.
func (r *PhotoRepository) SetMain(ctx context.Context, ownerID, photoID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var isMain bool
	err = tx.QueryRow(ctx,
		`SELECT is_main FROM photos WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
		photoID, ownerID,
	).Scan(&isMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to lock photo: %w", err)
	}
	if isMain {
		return fmt.Errorf("photo %s is already the main photo: %w", photoID, apperrors.ErrInvalidInput)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = false WHERE owner_id = $1 AND is_main`, ownerID,
	); err != nil {
		return fmt.Errorf("failed to clear main photo: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = true WHERE id = $1`, photoID,
	); err != nil {
		return fmt.Errorf("failed to set main photo: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit main photo swap: %w", err)
	}
	return nil
}

// Delete removes a photo row
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var photo models.Photo
	err := row.Scan(
		&photo.ID, &photo.OwnerID, &photo.URL, &photo.IsMain,
		&photo.IsApproved, &photo.ExternalRef, &photo.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
