package handlers

import (
	"encoding/json"
	"net/http"

	"matchly-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles the message endpoints under /users/{user_id}
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// ListMessages handles GET /api/v1/users/{user_id}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")
	container := r.URL.Query().Get("container")

	page, err := h.messageService.List(ctx, userID, container, parsePageParams(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list messages")
		respondServiceError(w, err)
		return
	}

	writePagination(w, page.Meta)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetMessage handles GET /api/v1/users/{user_id}/messages/{message_id}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")
	messageID := chi.URLParam(r, "message_id")

	msg, err := h.messageService.Get(ctx, messageID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msg)
}

// GetThread handles GET /api/v1/users/{user_id}/messages/thread/{recipient_id}
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")
	otherID := chi.URLParam(r, "recipient_id")

	thread, err := h.messageService.Thread(ctx, userID, otherID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get message thread")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

type createMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// CreateMessage handles POST /api/v1/users/{user_id}/messages
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	senderID := chi.URLParam(r, "user_id")

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(ctx, senderID, req.RecipientID, req.Content)
	if err != nil {
		log.Warn().
			Err(err).
			Str("sender_id", senderID).
			Str("recipient_id", req.RecipientID).
			Msg("Failed to send message")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// DeleteMessage handles DELETE /api/v1/users/{user_id}/messages/{message_id}.
// Deletion is per side; the row disappears once both sides have deleted.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")
	messageID := chi.URLParam(r, "message_id")

	if err := h.messageService.Delete(ctx, messageID, userID); err != nil {
		log.Warn().Err(err).Str("message_id", messageID).Msg("Failed to delete message")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /api/v1/users/{user_id}/messages/{message_id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")
	messageID := chi.URLParam(r, "message_id")

	if err := h.messageService.MarkRead(ctx, messageID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
