package handlers

import (
	"errors"
	"net/http"

	"matchly-backend/internal/middleware"
	"matchly-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// 10 MB upload cap, matching the asset host's transform limit.
const maxUploadBytes = 10 << 20

// PhotoHandler handles the photo endpoints under /users/{user_id}
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// ListPhotos handles GET /api/v1/users/{user_id}/photos
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "user_id")

	page, err := h.photoService.List(ctx, ownerID, middleware.GetUserID(ctx), parsePageParams(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", ownerID).Msg("Failed to list photos")
		respondServiceError(w, err)
		return
	}

	writePagination(w, page.Meta)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetPhoto handles GET /api/v1/users/{user_id}/photos/{photo_id}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.photoService.Get(r.Context(), chi.URLParam(r, "photo_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, photo)
}

// UploadPhoto handles POST /api/v1/users/{user_id}/photos
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "user_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "file exceeds the upload size limit", http.StatusBadRequest)
			return
		}
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo, err := h.photoService.Upload(ctx, ownerID, header.Filename, contentType, file)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", ownerID).
			Str("filename", header.Filename).
			Msg("Failed to upload photo")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", ownerID).
		Str("photo_id", photo.ID).
		Bool("is_main", photo.IsMain).
		Msg("Photo uploaded")

	respondJSON(w, http.StatusCreated, photo)
}

// SetMainPhoto handles POST /api/v1/users/{user_id}/photos/{photo_id}/setMain
func (h *PhotoHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "user_id")
	photoID := chi.URLParam(r, "photo_id")

	if err := h.photoService.SetMain(ctx, ownerID, photoID); err != nil {
		log.Warn().Err(err).Str("photo_id", photoID).Msg("Failed to set main photo")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /api/v1/users/{user_id}/photos/{photo_id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "user_id")
	photoID := chi.URLParam(r, "photo_id")

	if err := h.photoService.Delete(ctx, ownerID, photoID); err != nil {
		log.Warn().Err(err).Str("photo_id", photoID).Msg("Failed to delete photo")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
