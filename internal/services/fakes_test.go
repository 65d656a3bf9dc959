package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"
)

// In-memory store fakes. They mirror the SQL repositories' behavior,
// including the invariants the database enforces with constraints.

type fakeUserStore struct {
	users map[string]*models.User
	likes []models.Like
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q taken: %w", user.Username, apperrors.ErrConflict)
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
}

func (s *fakeUserStore) GetByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	found := make(map[string]*models.User)
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func (s *fakeUserStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

func (s *fakeUserStore) List(_ context.Context, f models.DiscoveryFilter, p pagination.Params) ([]*models.User, int, error) {
	var matched []*models.User
	for _, u := range s.users {
		if !f.Matches(u) {
			continue
		}
		if f.LikersOnly && !s.hasEdge(u.ID, f.RequesterID) {
			continue
		}
		if f.LikeesOnly && !s.hasEdge(f.RequesterID, u.ID) {
			continue
		}
		matched = append(matched, u)
	}

	sort.Slice(matched, func(i, j int) bool {
		if f.OrderBy == models.OrderByCreated {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].LastActiveAt.After(matched[j].LastActiveAt)
	})

	page := pagination.Slice(matched, p)
	return page.Items, page.Meta.TotalItems, nil
}

func (s *fakeUserStore) hasEdge(likerID, likeeID string) bool {
	for _, l := range s.likes {
		if l.LikerID == likerID && l.LikeeID == likeeID {
			return true
		}
	}
	return false
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrNotFound)
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) TouchLastActive(_ context.Context, id string, at time.Time) error {
	if u, ok := s.users[id]; ok {
		u.LastActiveAt = at
	}
	return nil
}

type fakePhotoStore struct {
	photos map[string]*models.Photo
}

func newFakePhotoStore(photos ...*models.Photo) *fakePhotoStore {
	s := &fakePhotoStore{photos: make(map[string]*models.Photo)}
	for _, p := range photos {
		s.photos[p.ID] = p
	}
	return s
}

func (s *fakePhotoStore) Create(_ context.Context, photo *models.Photo) error {
	photo.IsMain = true
	for _, existing := range s.photos {
		if existing.OwnerID == photo.OwnerID && existing.IsMain {
			photo.IsMain = false
			break
		}
	}
	s.photos[photo.ID] = photo
	return nil
}

func (s *fakePhotoStore) GetByID(_ context.Context, id string) (*models.Photo, error) {
	photo, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	return photo, nil
}

func (s *fakePhotoStore) ListByOwner(_ context.Context, ownerID string, includeUnapproved bool) ([]*models.Photo, error) {
	var photos []*models.Photo
	for _, p := range s.photos {
		if p.OwnerID != ownerID {
			continue
		}
		if !p.IsApproved && !includeUnapproved {
			continue
		}
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].AddedAt.After(photos[j].AddedAt)
	})
	return photos, nil
}

func (s *fakePhotoStore) MainPhotoURLs(_ context.Context, ownerIDs []string) (map[string]string, error) {
	urls := make(map[string]string)
	for _, id := range ownerIDs {
		for _, p := range s.photos {
			if p.OwnerID == id && p.IsMain && p.IsApproved {
				urls[id] = p.URL
			}
		}
	}
	return urls, nil
}

func (s *fakePhotoStore) SetMain(_ context.Context, ownerID, photoID string) error {
	target, ok := s.photos[photoID]
	if !ok || target.OwnerID != ownerID {
		return fmt.Errorf("photo %s: %w", photoID, apperrors.ErrNotFound)
	}
	if target.IsMain {
		return fmt.Errorf("photo %s is already the main photo: %w", photoID, apperrors.ErrInvalidInput)
	}
	for _, p := range s.photos {
		if p.OwnerID == ownerID {
			p.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (s *fakePhotoStore) Delete(_ context.Context, id string) error {
	if _, ok := s.photos[id]; !ok {
		return fmt.Errorf("photo %s: %w", id, apperrors.ErrNotFound)
	}
	delete(s.photos, id)
	return nil
}

func (s *fakePhotoStore) mainCount(ownerID string) int {
	count := 0
	for _, p := range s.photos {
		if p.OwnerID == ownerID && p.IsMain {
			count++
		}
	}
	return count
}

type fakeLikeStore struct {
	edges map[[2]string]struct{}
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{edges: make(map[[2]string]struct{})}
}

func (s *fakeLikeStore) Insert(_ context.Context, likerID, likeeID string) error {
	key := [2]string{likerID, likeeID}
	if _, ok := s.edges[key]; ok {
		return fmt.Errorf("like %s -> %s already exists: %w", likerID, likeeID, apperrors.ErrConflict)
	}
	s.edges[key] = struct{}{}
	return nil
}

func (s *fakeLikeStore) Likers(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for edge := range s.edges {
		if edge[1] == userID {
			ids = append(ids, edge[0])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fakeLikeStore) Likees(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for edge := range s.edges {
		if edge[0] == userID {
			ids = append(ids, edge[1])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeMessageStore struct {
	messages map[string]*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[string]*models.Message)}
}

func (s *fakeMessageStore) Create(_ context.Context, msg *models.Message) error {
	s.messages[msg.ID] = msg
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
	}
	return msg, nil
}

func (s *fakeMessageStore) ListForUser(_ context.Context, userID, container string, p pagination.Params) ([]*models.Message, int, error) {
	var matched []*models.Message
	for _, m := range s.messages {
		if m.InContainer(userID, container) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SentAt.After(matched[j].SentAt)
	})

	page := pagination.Slice(matched, p)
	return page.Items, page.Meta.TotalItems, nil
}

func (s *fakeMessageStore) Thread(_ context.Context, userID, otherID string) ([]*models.Message, error) {
	var matched []*models.Message
	for _, m := range s.messages {
		between := (m.SenderID == userID && m.RecipientID == otherID) ||
			(m.SenderID == otherID && m.RecipientID == userID)
		if between && m.VisibleTo(userID) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SentAt.After(matched[j].SentAt)
	})
	return matched, nil
}

func (s *fakeMessageStore) MarkRead(_ context.Context, id string, at time.Time) error {
	msg, ok := s.messages[id]
	if !ok {
		return fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
	}
	msg.ReadAt = &at
	return nil
}

// MarkDeleted mirrors the one-sided atomic flip: only the caller's flag
// is ORed in, and the row is erased once both flags hold.
func (s *fakeMessageStore) MarkDeleted(_ context.Context, id string, bySender bool) error {
	msg, ok := s.messages[id]
	if !ok {
		return fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
	}
	if bySender {
		msg.SenderDeleted = true
	} else {
		msg.RecipientDeleted = true
	}
	if msg.SenderDeleted && msg.RecipientDeleted {
		delete(s.messages, id)
	}
	return nil
}

type fakeAssetStore struct {
	uploaded  map[string]string
	removed   []string
	removeErr error
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{uploaded: make(map[string]string)}
}

func (s *fakeAssetStore) Upload(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	url := "https://assets.test/" + key
	s.uploaded[key] = url
	return url, nil
}

func (s *fakeAssetStore) Remove(_ context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, key)
	return nil
}
