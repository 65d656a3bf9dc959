package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"
	"matchly-backend/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Age bounds applied when a discovery request leaves them unset. A request
// at exactly these bounds disables date-of-birth filtering entirely, so
// users born outside the default window are not silently excluded.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 99
)

// UserService handles registration, login, profiles and member discovery
type UserService struct {
	users  UserStore
	photos PhotoStore
	issuer *token.Issuer
}

// NewUserService creates a new user service
func NewUserService(users UserStore, photos PhotoStore, issuer *token.Issuer) *UserService {
	return &UserService{
		users:  users,
		photos: photos,
		issuer: issuer,
	}
}

// RegisterRequest carries the fields needed to create an account
type RegisterRequest struct {
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	KnownAs     string    `json:"known_as"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
}

// Register creates a new user with a bcrypt-hashed password and the
// default member role.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperrors.ErrInvalidInput)
	}
	if req.Gender != models.GenderMale && req.Gender != models.GenderFemale {
		return nil, fmt.Errorf("gender must be %q or %q: %w", models.GenderMale, models.GenderFemale, apperrors.ErrInvalidInput)
	}
	if req.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("date of birth is required: %w", apperrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		KnownAs:      req.KnownAs,
		City:         req.City,
		Country:      req.Country,
		Roles:        []string{models.RoleMember},
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if user.KnownAs == "" {
		user.KnownAs = req.Username
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks credentials and returns the user with a fresh bearer token.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	signed, err := s.issuer.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, signed, nil
}

// Get returns the profile view of a user. The owner sees all their photos;
// everyone else sees only approved ones.
func (s *UserService) Get(ctx context.Context, id, viewerID string) (models.UserDetail, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.UserDetail{}, err
	}

	photos, err := s.photos.ListByOwner(ctx, id, viewerID == id)
	if err != nil {
		return models.UserDetail{}, err
	}

	return models.NewUserDetail(user, photos), nil
}

// DiscoveryOptions are the raw, caller-supplied discovery inputs
type DiscoveryOptions struct {
	Gender     string
	MinAge     int
	MaxAge     int
	OrderBy    string
	LikersOnly bool
	LikeesOnly bool
	Page       pagination.Params
}

// Discover lists candidate users for the requester: the requester is
// excluded, gender defaults to the complement of their own, age bounds
// become a date-of-birth window and the like graph can restrict the
// candidate set. Results carry each candidate's main photo.
func (s *UserService) Discover(ctx context.Context, requesterID string, opts DiscoveryOptions) (pagination.Page[models.UserSummary], error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return pagination.Page[models.UserSummary]{}, err
	}

	filter := BuildDiscoveryFilter(requester, opts, time.Now())

	users, total, err := s.users.List(ctx, filter, opts.Page)
	if err != nil {
		return pagination.Page[models.UserSummary]{}, err
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	photoURLs, err := s.photos.MainPhotoURLs(ctx, ids)
	if err != nil {
		return pagination.Page[models.UserSummary]{}, err
	}

	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = models.NewUserSummary(u, photoURLs[u.ID])
	}

	return pagination.NewPage(summaries, total, opts.Page), nil
}

// BuildDiscoveryFilter resolves raw discovery options against the
// requester's profile. Age bounds are translated to a date-of-birth window
// of [today - (maxAge+1) years, today - minAge years]; the window is skipped
// entirely when both bounds are at their defaults.
func BuildDiscoveryFilter(requester *models.User, opts DiscoveryOptions, now time.Time) models.DiscoveryFilter {
	minAge := opts.MinAge
	if minAge == 0 {
		minAge = DefaultMinAge
	}
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	gender := opts.Gender
	if gender == "" {
		gender = models.OppositeGender(requester.Gender)
	}

	f := models.DiscoveryFilter{
		RequesterID: requester.ID,
		Gender:      gender,
		LikersOnly:  opts.LikersOnly,
		LikeesOnly:  opts.LikeesOnly,
		OrderBy:     opts.OrderBy,
	}

	if minAge != DefaultMinAge || maxAge != DefaultMaxAge {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		f.FilterDob = true
		f.MinDob = today.AddDate(-maxAge-1, 0, 0)
		f.MaxDob = today.AddDate(-minAge, 0, 0)
	}

	return f
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	KnownAs      string `json:"known_as"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Introduction string `json:"introduction"`
	LookingFor   string `json:"looking_for"`
	Interests    string `json:"interests"`
}

// UpdateProfile applies the update to the user's editable fields
func (s *UserService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.KnownAs = upd.KnownAs
	user.City = upd.City
	user.Country = upd.Country
	user.Introduction = upd.Introduction
	user.LookingFor = upd.LookingFor
	user.Interests = upd.Interests

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TouchLastActive stamps the user's last activity with the current time.
// Called by the request layer after each authenticated request.
func (s *UserService) TouchLastActive(ctx context.Context, id string) error {
	return s.users.TouchLastActive(ctx, id, time.Now())
}
