package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"

	"github.com/google/uuid"
)

// MessageService drives the two-sided message lifecycle
type MessageService struct {
	messages MessageStore
	users    UserStore
	photos   PhotoStore
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, users UserStore, photos PhotoStore) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		photos:   photos,
	}
}

// Send creates a message from sender to recipient. Empty content is
// rejected before anything is written.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content cannot be empty: %w", apperrors.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("recipient %s: %w", recipientID, apperrors.ErrNotFound)
	}

	msg := &models.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		SentAt:      time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Get returns a single message to one of its participants. A participant
// who has deleted the message no longer sees it.
func (s *MessageService) Get(ctx context.Context, messageID, userID string) (*models.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		return nil, fmt.Errorf("not a participant of message %s: %w", messageID, apperrors.ErrUnauthorized)
	}
	if !msg.VisibleTo(userID) {
		return nil, fmt.Errorf("message %s: %w", messageID, apperrors.ErrNotFound)
	}
	return msg, nil
}

// List returns one page of the user's mailbox container (Inbox, Outbox or
// Unread; anything else means Unread), decorated with participant data.
func (s *MessageService) List(ctx context.Context, userID, container string, p pagination.Params) (pagination.Page[models.MessageView], error) {
	messages, total, err := s.messages.ListForUser(ctx, userID, container, p)
	if err != nil {
		return pagination.Page[models.MessageView]{}, err
	}

	views, err := s.decorate(ctx, messages)
	if err != nil {
		return pagination.Page[models.MessageView]{}, err
	}

	return pagination.NewPage(views, total, p), nil
}

// Thread returns the conversation between the user and another member,
// newest first, with each side's deleted messages hidden from that side.
func (s *MessageService) Thread(ctx context.Context, userID, otherID string) ([]models.MessageView, error) {
	messages, err := s.messages.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, messages)
}

// MarkRead stamps a message as read. Only the recipient may do this.
func (s *MessageService) MarkRead(ctx context.Context, messageID, userID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.RecipientID != userID {
		return fmt.Errorf("only the recipient can mark message %s read: %w", messageID, apperrors.ErrUnauthorized)
	}
	return s.messages.MarkRead(ctx, messageID, time.Now())
}

// Delete flips the caller's delete flag. Once both sides have deleted the
// message it is erased for good. The store flips only the caller's side
// and erases atomically, so the other side's concurrent delete is never
// lost to a stale read here.
func (s *MessageService) Delete(ctx context.Context, messageID, userID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		return fmt.Errorf("not a participant of message %s: %w", messageID, apperrors.ErrUnauthorized)
	}

	return s.messages.MarkDeleted(ctx, messageID, userID == msg.SenderID)
}

// decorate joins messages with both participants' display names and main
// photos in two batched lookups.
func (s *MessageService) decorate(ctx context.Context, messages []*models.Message) ([]models.MessageView, error) {
	idSet := make(map[string]struct{}, len(messages)*2)
	for _, m := range messages {
		idSet[m.SenderID] = struct{}{}
		idSet[m.RecipientID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	photoURLs, err := s.photos.MainPhotoURLs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, len(messages))
	for i, m := range messages {
		views[i] = models.NewMessageView(m,
			users[m.SenderID], users[m.RecipientID],
			photoURLs[m.SenderID], photoURLs[m.RecipientID],
		)
	}
	return views, nil
}
