// Package security matches login passcodes against the three tier secrets.
// The role a session receives is derived solely from which secret matched;
// the client never chooses or asserts a role.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"clubportal/api/internal/models"
)

// TierSecrets holds the server-side shared secrets, one per tier. Values may
// be plain passcodes or argon2id encoded hashes (see passcodehash.go).
type TierSecrets struct {
	Owner string
	Admin string
	User  string
}

// Normalize trims leading and trailing whitespace. Case is preserved:
// passcodes are secrets and case-folding would shrink their space.
func Normalize(passcode string) string {
	return strings.TrimSpace(passcode)
}

// MatchTier resolves a submitted passcode to a role, checking the most
// privileged tier first so a (misconfigured) duplicate secret resolves to
// owner, then admin, then user.
func (t TierSecrets) MatchTier(passcode string) (models.Role, bool) {
	candidate := Normalize(passcode)
	if candidate == "" {
		return "", false
	}

	switch {
	case matchSecret(t.Owner, candidate):
		return models.RoleOwner, true
	case matchSecret(t.Admin, candidate):
		return models.RoleAdmin, true
	case matchSecret(t.User, candidate):
		return models.RoleUser, true
	default:
		return "", false
	}
}

func matchSecret(stored, candidate string) bool {
	stored = Normalize(stored)
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, argon2Prefix) {
		ok, err := VerifyPasscodeHash(candidate, stored)
		return err == nil && ok
	}

	// Hash both sides so the comparison is constant-time regardless of
	// length differences.
	storedSum := sha256.Sum256([]byte(stored))
	candidateSum := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(storedSum[:], candidateSum[:]) == 1
}
