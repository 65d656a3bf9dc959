package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"matchly-backend/internal/middleware"
	"matchly-backend/internal/pagination"
	"matchly-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user discovery, profiles and likes
type UserHandler struct {
	userService *services.UserService
	likeService *services.LikeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, likeService *services.LikeService) *UserHandler {
	return &UserHandler{
		userService: userService,
		likeService: likeService,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID := middleware.GetUserID(ctx)

	opts := services.DiscoveryOptions{
		Gender:     r.URL.Query().Get("gender"),
		MinAge:     queryInt(r, "minAge"),
		MaxAge:     queryInt(r, "maxAge"),
		OrderBy:    r.URL.Query().Get("orderBy"),
		LikersOnly: queryBool(r, "likers"),
		LikeesOnly: queryBool(r, "likees"),
		Page:       parsePageParams(r),
	}

	page, err := h.userService.Discover(ctx, requesterID, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", requesterID).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}

	writePagination(w, page.Meta)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetUser handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "user_id")

	detail, err := h.userService.Get(ctx, subjectID, middleware.GetUserID(ctx))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// UpdateUser handles PUT /api/v1/users/{user_id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID := chi.URLParam(r, "user_id")

	var upd services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.userService.UpdateProfile(ctx, subjectID, upd); err != nil {
		log.Error().Err(err).Str("user_id", subjectID).Msg("Failed to update user")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLikers handles GET /api/v1/users/{user_id}/likers
func (h *UserHandler) ListLikers(w http.ResponseWriter, r *http.Request) {
	h.listLikeEdges(w, r, h.likeService.Likers)
}

// ListLikees handles GET /api/v1/users/{user_id}/likees
func (h *UserHandler) ListLikees(w http.ResponseWriter, r *http.Request) {
	h.listLikeEdges(w, r, h.likeService.Likees)
}

func (h *UserHandler) listLikeEdges(w http.ResponseWriter, r *http.Request, project func(context.Context, string, pagination.Params) (pagination.Page[string], error)) {
	subjectID := chi.URLParam(r, "user_id")

	page, err := project(r.Context(), subjectID, parsePageParams(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writePagination(w, page.Meta)
	respondJSON(w, http.StatusOK, page.Items)
}

// LikeUser handles POST /api/v1/users/{user_id}/like/{recipient_id}
func (h *UserHandler) LikeUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	likerID := chi.URLParam(r, "user_id")
	likeeID := chi.URLParam(r, "recipient_id")

	if err := h.likeService.Like(ctx, likerID, likeeID); err != nil {
		log.Warn().
			Err(err).
			Str("liker_id", likerID).
			Str("likee_id", likeeID).
			Msg("Failed to like user")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("liker_id", likerID).
		Str("likee_id", likeeID).
		Msg("User liked")

	w.WriteHeader(http.StatusOK)
}
