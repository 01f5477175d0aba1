package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid mixed", "Foo_Bar-1", false},
		{"valid with space", "Foo Bar", false},
		{"minimum length", "ab", false},
		{"maximum length", strings.Repeat("a", 20), false},
		{"too short", "a", true},
		{"too long", strings.Repeat("a", 21), true},
		{"reserved word admin", "admin2", true},
		{"reserved word uppercase", "ADMINISTRATOR", true},
		{"reserved word owner", "the_owner", true},
		{"reserved word bot", "chatbot", true},
		{"double space", "foo  bar", true},
		{"disallowed punctuation", "foo!", true},
		{"disallowed at sign", "foo@bar", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
