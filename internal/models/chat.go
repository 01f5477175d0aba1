package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MessageMaxLen = 500

// ChatMessage is a chat entry. DeletedAt is a soft delete visible to all
// readers; HiddenFor suppresses the message for the listed sessions only.
// The two exclusions are independent and both checked at read time.
type ChatMessage struct {
	ID        string
	SessionID string
	Text      string
	CreatedAt time.Time
	DeletedAt *time.Time
	HiddenFor []string
}

func (m ChatMessage) Deleted() bool {
	return m.DeletedAt != nil
}

// VisibleTo reports whether the message should appear for the given viewer.
func (m ChatMessage) VisibleTo(sessionID string) bool {
	if m.Deleted() {
		return false
	}
	for _, hidden := range m.HiddenFor {
		if hidden == sessionID {
			return false
		}
	}
	return true
}

type MessageAction string

const (
	MessageActionUndo   MessageAction = "undo"
	MessageActionHide   MessageAction = "hide"
	MessageActionDelete MessageAction = "delete"
)

func (a MessageAction) IsValid() bool {
	return a == MessageActionUndo || a == MessageActionHide || a == MessageActionDelete
}

func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text is required")
	}
	if utf8.RuneCountInString(text) > MessageMaxLen {
		return fmt.Errorf("message must be at most %d characters", MessageMaxLen)
	}
	return nil
}
