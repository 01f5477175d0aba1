package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"clubportal/api/internal/apperr"
	"clubportal/api/internal/authz"
	"clubportal/api/internal/ids"
	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
)

const defaultMessageListLimit = 100

// ModerationService owns the chat message lifecycle and the three takedown
// paths: author undo (recency-windowed soft delete), per-viewer hide, and
// moderator delete.
type ModerationService struct {
	chat       ChatStore
	undoWindow int
	log        zerolog.Logger
}

func NewModerationService(chat ChatStore, undoWindow int, log zerolog.Logger) *ModerationService {
	if undoWindow <= 0 {
		undoWindow = 3
	}
	return &ModerationService{chat: chat, undoWindow: undoWindow, log: log}
}

func (s *ModerationService) Post(ctx context.Context, caller models.Session, text string) (models.ChatMessage, error) {
	if err := models.ValidateMessageText(text); err != nil {
		return models.ChatMessage{}, apperr.Validation("%s", err.Error())
	}

	message, err := s.chat.Create(ctx, models.ChatMessage{
		ID:        ids.New(),
		SessionID: caller.ID,
		Text:      strings.TrimSpace(text),
	})
	if err != nil {
		s.log.Error().Err(err).Str("op", "post_message").Msg("message insert failed")
		return models.ChatMessage{}, err
	}
	return message, nil
}

// List returns the messages visible to the caller, newest first. Visibility
// is computed by the store per request; nothing is cached, so a takedown
// lands on every viewer's next read.
func (s *ModerationService) List(ctx context.Context, caller models.Session) ([]models.ChatMessage, error) {
	messages, err := s.chat.ListVisible(ctx, caller.ID, defaultMessageListLimit)
	if err != nil {
		s.log.Error().Err(err).Str("op", "list_messages").Msg("message list failed")
		return nil, err
	}
	return messages, nil
}

// Act applies one moderation action to a message on behalf of the caller.
func (s *ModerationService) Act(ctx context.Context, caller models.Session, messageID string, action models.MessageAction) error {
	if !action.IsValid() {
		return apperr.Validation("unknown action %q", action)
	}

	message, err := s.chat.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return apperr.NotFound("message not found")
		}
		s.log.Error().Err(err).Str("op", "message_action").Msg("message lookup failed")
		return err
	}

	switch action {
	case models.MessageActionUndo:
		return s.undo(ctx, caller, message)
	case models.MessageActionHide:
		return s.hide(ctx, caller, message)
	case models.MessageActionDelete:
		return s.moderatorDelete(ctx, caller, message)
	default:
		return apperr.Validation("unknown action %q", action)
	}
}

// undo is the author's self-service correction: a soft delete permitted only
// while the message sits among the author's newest undeleted messages.
func (s *ModerationService) undo(ctx context.Context, caller models.Session, message models.ChatMessage) error {
	if message.SessionID != caller.ID {
		return apperr.Forbidden("only the author may undo a message")
	}

	recent, err := s.chat.ListRecentUndeletedByAuthor(ctx, caller.ID, s.undoWindow)
	if err != nil {
		s.log.Error().Err(err).Str("op", "message_action").Msg("undo window query failed")
		return err
	}

	inWindow := false
	for _, candidate := range recent {
		if candidate.ID == message.ID {
			inWindow = true
			break
		}
	}
	if !inWindow {
		return apperr.Forbidden("message is outside your undo window")
	}

	return s.softDelete(ctx, message.ID)
}

// hide suppresses the message for the caller only. Idempotent: hiding an
// already-hidden message succeeds without effect.
func (s *ModerationService) hide(ctx context.Context, caller models.Session, message models.ChatMessage) error {
	if err := s.chat.Hide(ctx, message.ID, caller.ID); err != nil {
		s.log.Error().Err(err).Str("op", "message_action").Msg("hide failed")
		return err
	}
	return nil
}

// moderatorDelete is the unconditional takedown, gated by the privilege
// matrix rather than authorship or recency.
func (s *ModerationService) moderatorDelete(ctx context.Context, caller models.Session, message models.ChatMessage) error {
	if !authz.Can(authz.Request{Caller: caller.Role, Action: authz.ActionModerateMessage}) {
		return apperr.Forbidden("insufficient privileges")
	}
	return s.softDelete(ctx, message.ID)
}

func (s *ModerationService) softDelete(ctx context.Context, messageID string) error {
	if err := s.chat.SoftDelete(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return apperr.NotFound("message not found")
		}
		s.log.Error().Err(err).Str("op", "message_action").Msg("soft delete failed")
		return err
	}
	return nil
}
