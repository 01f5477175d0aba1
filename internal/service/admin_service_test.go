package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/api/internal/apperr"
	"clubportal/api/internal/models"
)

type adminFixture struct {
	svc      *AdminService
	sessions *fakeSessionStore
	bans     *fakeBanStore
	waitlist *fakeWaitlistStore
	settings *fakeSettingsStore

	owner models.Session
	admin models.Session
	user  models.Session
}

func newAdminFixture(t *testing.T) adminFixture {
	t.Helper()

	sessions := newFakeSessionStore()
	bans := newFakeBanStore(sessions)
	waitlist := newFakeWaitlistStore()
	settings := newFakeSettingsStore()

	svc := NewAdminService(sessions, bans, waitlist, settings, zerolog.Nop())

	seed := func(id, device string, role models.Role) models.Session {
		session, err := sessions.Upsert(context.Background(), models.Session{
			ID:       id,
			DeviceID: device,
			Role:     role,
		})
		require.NoError(t, err)
		return session
	}

	return adminFixture{
		svc:      svc,
		sessions: sessions,
		bans:     bans,
		waitlist: waitlist,
		settings: settings,
		owner:    seed("owner-session", "owner-device", models.RoleOwner),
		admin:    seed("admin-session", "admin-device", models.RoleAdmin),
		user:     seed("user-session", "user-device", models.RoleUser),
	}
}

func TestBanPrivileges(t *testing.T) {
	tests := []struct {
		name    string
		caller  func(f adminFixture) models.Session
		target  func(f adminFixture) string
		errType apperr.Type
	}{
		{"admin bans user", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.user.DeviceID }, ""},
		{"owner bans user", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.user.DeviceID }, ""},
		{"owner bans admin", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.admin.DeviceID }, ""},
		{"admin bans admin", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.admin.DeviceID }, apperr.TypeForbidden},
		{"admin bans owner", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.owner.DeviceID }, apperr.TypeForbidden},
		{"owner bans owner self", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.owner.DeviceID }, apperr.TypeForbidden},
		{"user bans user", func(f adminFixture) models.Session { return f.user }, func(f adminFixture) string { return f.user.DeviceID }, apperr.TypeForbidden},
		{"unknown target", func(f adminFixture) models.Session { return f.owner }, func(adminFixture) string { return "ghost-device" }, apperr.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(t)
			err := f.svc.Ban(context.Background(), tt.caller(f), tt.target(f))
			if tt.errType == "" {
				require.NoError(t, err)
				ban, getErr := f.bans.GetByDeviceID(context.Background(), tt.target(f))
				require.NoError(t, getErr)
				assert.Equal(t, tt.caller(f).ID, ban.BannedBy)

				target, getErr := f.sessions.GetByDeviceID(context.Background(), tt.target(f))
				require.NoError(t, getErr)
				assert.True(t, target.IsBanned, "session flag kept in sync with ban row")
			} else {
				requireAppErr(t, err, tt.errType)
			}
		})
	}
}

func TestBanTwiceConflicts(t *testing.T) {
	f := newAdminFixture(t)

	require.NoError(t, f.svc.Ban(context.Background(), f.admin, f.user.DeviceID))
	err := f.svc.Ban(context.Background(), f.admin, f.user.DeviceID)
	requireAppErr(t, err, apperr.TypeConflict)
}

func TestUnban(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, f.svc.Ban(context.Background(), f.admin, f.user.DeviceID))

	require.NoError(t, f.svc.Unban(context.Background(), f.admin, f.user.DeviceID))

	_, err := f.bans.GetByDeviceID(context.Background(), f.user.DeviceID)
	assert.Error(t, err)
	target, err := f.sessions.GetByDeviceID(context.Background(), f.user.DeviceID)
	require.NoError(t, err)
	assert.False(t, target.IsBanned)

	err = f.svc.Unban(context.Background(), f.admin, f.user.DeviceID)
	requireAppErr(t, err, apperr.TypeNotFound)

	err = f.svc.Unban(context.Background(), f.user, f.user.DeviceID)
	requireAppErr(t, err, apperr.TypeForbidden)
}

func TestDeleteSessionPrivileges(t *testing.T) {
	tests := []struct {
		name    string
		caller  func(f adminFixture) models.Session
		target  func(f adminFixture) string
		errType apperr.Type
	}{
		{"admin deletes user session", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.user.DeviceID }, ""},
		{"owner deletes admin session", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.admin.DeviceID }, ""},
		{"admin deletes admin session", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.admin.DeviceID }, apperr.TypeForbidden},
		{"owner deletes own session", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.owner.DeviceID }, apperr.TypeForbidden},
		{"user deletes session", func(f adminFixture) models.Session { return f.user }, func(f adminFixture) string { return f.admin.DeviceID }, apperr.TypeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(t)
			err := f.svc.DeleteSession(context.Background(), tt.caller(f), tt.target(f))
			if tt.errType == "" {
				require.NoError(t, err)
				_, getErr := f.sessions.GetByDeviceID(context.Background(), tt.target(f))
				assert.Error(t, getErr)
			} else {
				requireAppErr(t, err, tt.errType)
			}
		})
	}
}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name    string
		caller  func(f adminFixture) models.Session
		target  func(f adminFixture) string
		newRole string
		errType apperr.Type
	}{
		{"owner promotes user", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.user.DeviceID }, "admin", ""},
		{"owner demotes admin", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.admin.DeviceID }, "user", ""},
		{"admin promotes user", func(f adminFixture) models.Session { return f.admin }, func(f adminFixture) string { return f.user.DeviceID }, "admin", apperr.TypeForbidden},
		{"owner assigns owner tier", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.user.DeviceID }, "owner", apperr.TypeForbidden},
		{"owner targets owner", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.owner.DeviceID }, "admin", apperr.TypeForbidden},
		{"invalid role", func(f adminFixture) models.Session { return f.owner }, func(f adminFixture) string { return f.user.DeviceID }, "superuser", apperr.TypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(t)
			err := f.svc.ChangeRole(context.Background(), tt.caller(f), tt.target(f), tt.newRole)
			if tt.errType == "" {
				require.NoError(t, err)
				target, getErr := f.sessions.GetByDeviceID(context.Background(), tt.target(f))
				require.NoError(t, getErr)
				assert.Equal(t, models.Role(tt.newRole), target.Role)
			} else {
				requireAppErr(t, err, tt.errType)
			}
		})
	}
}

func TestToggleSiteOwnerOnly(t *testing.T) {
	f := newAdminFixture(t)

	require.NoError(t, f.svc.ToggleSite(context.Background(), f.owner, false))
	enabled, err := f.settings.SiteEnabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)

	err = f.svc.ToggleSite(context.Background(), f.admin, true)
	requireAppErr(t, err, apperr.TypeForbidden)
}

func TestReviewWaitlist(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.waitlist.CreateIfAbsent(context.Background(), models.WaitingListEntry{
		ID:       "entry-1",
		DeviceID: "new-device",
	})
	require.NoError(t, err)
	require.True(t, created)

	entry, err := f.svc.ReviewWaitlist(context.Background(), f.owner, "entry-1", WaitlistDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.WaitlistApproved, entry.Status)
	require.NotNil(t, entry.ReviewedBy)
	assert.Equal(t, f.owner.ID, *entry.ReviewedBy)

	// The transition is one-shot.
	_, err = f.svc.ReviewWaitlist(context.Background(), f.owner, "entry-1", WaitlistDecisionDeny)
	requireAppErr(t, err, apperr.TypeConflict)

	_, err = f.svc.ReviewWaitlist(context.Background(), f.owner, "missing-entry", WaitlistDecisionApprove)
	requireAppErr(t, err, apperr.TypeNotFound)

	_, err = f.svc.ReviewWaitlist(context.Background(), f.admin, "entry-1", WaitlistDecisionApprove)
	requireAppErr(t, err, apperr.TypeForbidden)

	_, err = f.svc.ReviewWaitlist(context.Background(), f.owner, "entry-1", "maybe")
	requireAppErr(t, err, apperr.TypeValidation)
}

func TestListWaitlistOwnerOnly(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ListWaitlist(context.Background(), f.admin)
	requireAppErr(t, err, apperr.TypeForbidden)

	entries, err := f.svc.ListWaitlist(context.Background(), f.owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListSessionsRequiresModerator(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ListSessions(context.Background(), f.user)
	requireAppErr(t, err, apperr.TypeForbidden)

	sessions, err := f.svc.ListSessions(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}
