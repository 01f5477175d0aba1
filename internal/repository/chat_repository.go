package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubportal/api/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) Create(ctx context.Context, message models.ChatMessage) (models.ChatMessage, error) {
	const query = `
		INSERT INTO chat_messages (id, session_id, text, hidden_for, created_at)
		VALUES ($1, $2, $3, '{}', NOW())
		RETURNING id, session_id, text, created_at, deleted_at, hidden_for
	`
	return scanMessage(r.pool.QueryRow(ctx, query, message.ID, message.SessionID, message.Text))
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (models.ChatMessage, error) {
	const query = `
		SELECT id, session_id, text, created_at, deleted_at, hidden_for
		FROM chat_messages
		WHERE id = $1
	`
	return scanMessage(r.pool.QueryRow(ctx, query, id))
}

// ListVisible returns messages the viewer may see: not soft-deleted and not
// individually hidden by that viewer. Both exclusions are evaluated here, per
// request, so moderation takes effect on the very next read.
func (r *ChatRepository) ListVisible(ctx context.Context, viewerSessionID string, limit int) ([]models.ChatMessage, error) {
	const query = `
		SELECT id, session_id, text, created_at, deleted_at, hidden_for
		FROM chat_messages
		WHERE deleted_at IS NULL AND NOT ($1 = ANY(hidden_for))
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, viewerSessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// ListRecentUndeletedByAuthor returns the author's newest undeleted messages,
// newest first. Used to compute the self-service undo window.
func (r *ChatRepository) ListRecentUndeletedByAuthor(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	const query = `
		SELECT id, session_id, text, created_at, deleted_at, hidden_for
		FROM chat_messages
		WHERE session_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// SoftDelete stamps deleted_at, keeping the first timestamp if two deletions
// race; either way the terminal state is the same.
func (r *ChatRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE chat_messages
		SET deleted_at = COALESCE(deleted_at, NOW())
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Hide appends the session to the message's hidden-for set. Re-hiding is a
// no-op by construction of the WHERE clause; callers verify existence first.
func (r *ChatRepository) Hide(ctx context.Context, id string, sessionID string) error {
	const query = `
		UPDATE chat_messages
		SET hidden_for = array_append(hidden_for, $2)
		WHERE id = $1 AND NOT ($2 = ANY(hidden_for))
	`
	_, err := r.pool.Exec(ctx, query, id, sessionID)
	return err
}

// PurgeDeletedBefore removes soft-deleted messages past the retention window.
func (r *ChatRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM chat_messages WHERE deleted_at IS NOT NULL AND deleted_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanMessage(row rowScanner) (models.ChatMessage, error) {
	var message models.ChatMessage
	if err := row.Scan(
		&message.ID,
		&message.SessionID,
		&message.Text,
		&message.CreatedAt,
		&message.DeletedAt,
		&message.HiddenFor,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChatMessage{}, ErrMessageNotFound
		}
		return models.ChatMessage{}, err
	}
	return message, nil
}
