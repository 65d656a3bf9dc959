package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matchly-backend/internal/apperrors"
	"matchly-backend/internal/models"
	"matchly-backend/internal/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, sender_id, recipient_id, content, sent_at, read_at, sender_deleted, recipient_deleted`

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content, msg.SentAt,
		msg.ReadAt, msg.SenderDeleted, msg.RecipientDeleted,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	msg, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListForUser retrieves one page of the user's mailbox container, newest
// first. The total is counted over the full container before slicing.
func (r *MessageRepository) ListForUser(ctx context.Context, userID, container string, p pagination.Params) ([]*models.Message, int, error) {
	var where string
	switch container {
	case models.ContainerInbox:
		where = `recipient_id = $1 AND NOT recipient_deleted`
	case models.ContainerOutbox:
		where = `sender_id = $1 AND NOT sender_deleted`
	default:
		where = `recipient_id = $1 AND NOT recipient_deleted AND read_at IS NULL`
	}

	countQuery := `SELECT COUNT(*) FROM messages WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE ` + where + `
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Thread retrieves the conversation between two users, newest first. Each
// side's messages are hidden once that side has deleted them.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE (recipient_id = $1 AND sender_id = $2 AND NOT recipient_deleted)
		   OR (recipient_id = $2 AND sender_id = $1 AND NOT sender_deleted)
		ORDER BY sent_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message thread: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkRead stamps the message as read
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.Exec(ctx, `UPDATE messages SET read_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// MarkDeleted flips one side's delete flag and erases the row once both
// flags are set, all in one transaction. Only the caller's own column is
// written, so concurrent deletes by the two sides cannot undo each other.
func (r *MessageRepository) MarkDeleted(ctx context.Context, id string, bySender bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE messages
		SET sender_deleted = sender_deleted OR $2,
		    recipient_deleted = recipient_deleted OR NOT $2
		WHERE id = $1
		RETURNING sender_deleted AND recipient_deleted
	`
	var bothDeleted bool
	if err := tx.QueryRow(ctx, query, id, bySender).Scan(&bothDeleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("message %s: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update message delete flag: %w", err)
	}

	if bothDeleted {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to erase message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message delete: %w", err)
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	var messages []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var msg models.Message
	err := row.Scan(
		&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.SentAt,
		&msg.ReadAt, &msg.SenderDeleted, &msg.RecipientDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
