// Package authz is the single privilege evaluator. Every privileged
// operation routes through Can so the role matrix lives in one place
// instead of scattered per-handler checks.
package authz

import "clubportal/api/internal/models"

type Action string

const (
	ActionBan             Action = "ban"
	ActionUnban           Action = "unban"
	ActionDeleteSession   Action = "delete_session"
	ActionChangeRole      Action = "change_role"
	ActionToggleSite      Action = "toggle_site"
	ActionReviewWaitlist  Action = "review_waitlist"
	ActionModerateMessage Action = "moderate_message"
)

// Request describes one privilege check. Target and SelfTarget are only
// meaningful for targeted actions (ban, unban, delete_session, change_role).
type Request struct {
	Caller     models.Role
	Action     Action
	Target     models.Role
	SelfTarget bool
}

// Can evaluates the privilege matrix:
//
//	                    user   admin   owner
//	ban user            deny   allow   allow
//	ban admin           deny   deny    allow
//	ban owner           deny   deny    deny (including self)
//	unban               deny   allow   allow
//	delete session      deny   user targets only   any non-self
//	change role         deny   deny    allow (never self, never owner tier)
//	toggle site         deny   deny    allow
//	review waitlist     deny   deny    allow
//	moderate message    deny   allow   allow
//
// Self-targeting is rejected for ban and session deletion regardless of
// role. The owner tier can never be banned, targeted by a role change, or
// assigned via a role change; it exists only through the owner credential.
func Can(req Request) bool {
	switch req.Action {
	case ActionBan:
		if req.SelfTarget || req.Target == models.RoleOwner {
			return false
		}
		switch req.Caller {
		case models.RoleOwner:
			return true
		case models.RoleAdmin:
			return req.Target == models.RoleUser
		default:
			return false
		}

	case ActionUnban:
		return req.Caller == models.RoleAdmin || req.Caller == models.RoleOwner

	case ActionDeleteSession:
		if req.SelfTarget {
			return false
		}
		switch req.Caller {
		case models.RoleOwner:
			return true
		case models.RoleAdmin:
			// Mirrors the ban column: admins reach user-tier targets only.
			return req.Target == models.RoleUser
		default:
			return false
		}

	case ActionChangeRole:
		if req.Caller != models.RoleOwner {
			return false
		}
		return !req.SelfTarget && req.Target != models.RoleOwner

	case ActionToggleSite, ActionReviewWaitlist:
		return req.Caller == models.RoleOwner

	case ActionModerateMessage:
		return req.Caller == models.RoleAdmin || req.Caller == models.RoleOwner

	default:
		return false
	}
}
