package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Profile is the zero-or-one display-name extension of a session.
type Profile struct {
	SessionID string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	UsernameMinLen = 2
	UsernameMaxLen = 20
)

// reservedUsernameWords may not appear anywhere in a username, in any case.
var reservedUsernameWords = []string{
	"admin",
	"owner",
	"system",
	"bot",
	"moderator",
	"support",
	"official",
}

// ValidateUsername enforces the display-name rules: 2-20 characters limited
// to letters, digits, space, underscore and hyphen, no consecutive spaces,
// and no reserved word as a substring (case-insensitive).
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < UsernameMinLen {
		return fmt.Errorf("username must be at least %d characters", UsernameMinLen)
	}
	if length > UsernameMaxLen {
		return fmt.Errorf("username must be at most %d characters", UsernameMaxLen)
	}

	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			continue
		}
		return fmt.Errorf("username may only contain letters, digits, spaces, underscores and hyphens")
	}

	if strings.Contains(username, "  ") {
		return fmt.Errorf("username may not contain consecutive spaces")
	}

	lowered := strings.ToLower(username)
	for _, word := range reservedUsernameWords {
		if strings.Contains(lowered, word) {
			return fmt.Errorf("username may not contain %q", word)
		}
	}

	return nil
}
