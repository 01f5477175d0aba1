package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id for entities (sessions, messages, bans).
func New() string {
	return ksuid.New().String()
}
