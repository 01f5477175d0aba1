package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleOwner
}

// Rank orders the hierarchy: owner > admin > user. Unknown roles rank below
// user so a corrupt value never gains privilege.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// Session binds an opaque client-generated device identifier to a role.
// At most one session exists per device identifier; the database enforces it.
type Session struct {
	ID           string
	DeviceID     string
	Role         Role
	IsBanned     bool
	IPAddress    string
	CreatedAt    time.Time
	LastActiveAt time.Time
}
