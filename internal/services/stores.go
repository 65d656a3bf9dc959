// Package services holds the business rules. Each service works against a
// narrow per-aggregate store interface implemented by the repository
// package, so the rules can be exercised without a database.
package services

import (
	"context"
	"io"
	"time"

	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"
)

// UserStore persists users and runs discovery queries.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f models.DiscoveryFilter, p pagination.Params) ([]*models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error
}

// PhotoStore persists photos. Create and SetMain are responsible for
// keeping at most one main photo per owner under concurrent callers.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListByOwner(ctx context.Context, ownerID string, includeUnapproved bool) ([]*models.Photo, error)
	MainPhotoURLs(ctx context.Context, ownerIDs []string) (map[string]string, error)
	SetMain(ctx context.Context, ownerID, photoID string) error
	Delete(ctx context.Context, id string) error
}

// LikeStore persists the directed like graph. Insert must reject a
// duplicate edge atomically.
type LikeStore interface {
	Insert(ctx context.Context, likerID, likeeID string) error
	Likers(ctx context.Context, userID string) ([]string, error)
	Likees(ctx context.Context, userID string) ([]string, error)
}

// MessageStore persists messages and evaluates mailbox partitions.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListForUser(ctx context.Context, userID, container string, p pagination.Params) ([]*models.Message, int, error)
	Thread(ctx context.Context, userID, otherID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkDeleted(ctx context.Context, id string, bySender bool) error
}

// AssetStore is the external photo host. Upload returns the public URL of
// the stored asset; the key doubles as the external reference id.
type AssetStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}
