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

// AdminService carries the privileged operations: bans, session deletion,
// role changes, the site switch and waiting-list review. Every decision
// defers to the authz matrix; nothing here re-implements role checks.
type AdminService struct {
	sessions SessionStore
	bans     BanStore
	waitlist WaitlistStore
	settings SettingsStore
	log      zerolog.Logger
}

func NewAdminService(
	sessions SessionStore,
	bans BanStore,
	waitlist WaitlistStore,
	settings SettingsStore,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		sessions: sessions,
		bans:     bans,
		waitlist: waitlist,
		settings: settings,
		log:      log,
	}
}

// Ban blocks a device. The target's last observed ip is captured on the ban
// row so the guard also catches storage-cleared devices coming back from the
// same address.
func (s *AdminService) Ban(ctx context.Context, caller models.Session, targetDeviceID string) error {
	targetDeviceID = strings.TrimSpace(targetDeviceID)
	if targetDeviceID == "" {
		return apperr.Validation("targetDeviceId is required")
	}

	target, err := s.sessions.GetByDeviceID(ctx, targetDeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperr.NotFound("target session not found")
		}
		s.log.Error().Err(err).Str("op", "ban").Msg("target lookup failed")
		return err
	}

	if !authz.Can(authz.Request{
		Caller:     caller.Role,
		Action:     authz.ActionBan,
		Target:     target.Role,
		SelfTarget: target.DeviceID == caller.DeviceID,
	}) {
		return apperr.Forbidden("you may not ban this target")
	}

	if _, err := s.bans.GetByDeviceID(ctx, targetDeviceID); err == nil {
		return apperr.Conflict("device is already banned")
	} else if !errors.Is(err, repository.ErrBanNotFound) {
		s.log.Error().Err(err).Str("op", "ban").Msg("ban lookup failed")
		return err
	}

	if err := s.bans.Ban(ctx, models.BannedDevice{
		ID:        ids.New(),
		DeviceID:  targetDeviceID,
		IPAddress: target.IPAddress,
		BannedBy:  caller.ID,
	}); err != nil {
		s.log.Error().Err(err).Str("op", "ban").Msg("ban write failed")
		return err
	}

	s.log.Info().Str("op", "ban").Str("banned_by", caller.ID).Msg("device banned")
	return nil
}

func (s *AdminService) Unban(ctx context.Context, caller models.Session, targetDeviceID string) error {
	targetDeviceID = strings.TrimSpace(targetDeviceID)
	if targetDeviceID == "" {
		return apperr.Validation("targetDeviceId is required")
	}

	if !authz.Can(authz.Request{Caller: caller.Role, Action: authz.ActionUnban}) {
		return apperr.Forbidden("insufficient privileges")
	}

	if err := s.bans.Unban(ctx, targetDeviceID); err != nil {
		if errors.Is(err, repository.ErrBanNotFound) {
			return apperr.NotFound("no ban found for this device")
		}
		s.log.Error().Err(err).Str("op", "unban").Msg("unban write failed")
		return err
	}

	s.log.Info().Str("op", "unban").Str("unbanned_by", caller.ID).Msg("device unbanned")
	return nil
}

func (s *AdminService) DeleteSession(ctx context.Context, caller models.Session, targetDeviceID string) error {
	targetDeviceID = strings.TrimSpace(targetDeviceID)
	if targetDeviceID == "" {
		return apperr.Validation("targetDeviceId is required")
	}

	target, err := s.sessions.GetByDeviceID(ctx, targetDeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperr.NotFound("target session not found")
		}
		s.log.Error().Err(err).Str("op", "delete_session").Msg("target lookup failed")
		return err
	}

	if !authz.Can(authz.Request{
		Caller:     caller.Role,
		Action:     authz.ActionDeleteSession,
		Target:     target.Role,
		SelfTarget: target.DeviceID == caller.DeviceID,
	}) {
		return apperr.Forbidden("you may not delete this session")
	}

	if err := s.sessions.DeleteByDeviceID(ctx, targetDeviceID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperr.NotFound("target session not found")
		}
		s.log.Error().Err(err).Str("op", "delete_session").Msg("session delete failed")
		return err
	}
	return nil
}

// ChangeRole moves a target between the user and admin tiers. The owner tier
// is never assignable here; it exists only through the owner credential at
// login time.
func (s *AdminService) ChangeRole(ctx context.Context, caller models.Session, targetDeviceID string, newRole string) error {
	targetDeviceID = strings.TrimSpace(targetDeviceID)
	if targetDeviceID == "" {
		return apperr.Validation("targetDeviceId is required")
	}

	role, ok := models.ParseRole(newRole)
	if !ok {
		return apperr.Validation("invalid role %q", newRole)
	}
	if role == models.RoleOwner {
		return apperr.Forbidden("the owner role cannot be assigned")
	}

	target, err := s.sessions.GetByDeviceID(ctx, targetDeviceID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperr.NotFound("target session not found")
		}
		s.log.Error().Err(err).Str("op", "change_role").Msg("target lookup failed")
		return err
	}

	if !authz.Can(authz.Request{
		Caller:     caller.Role,
		Action:     authz.ActionChangeRole,
		Target:     target.Role,
		SelfTarget: target.DeviceID == caller.DeviceID,
	}) {
		return apperr.Forbidden("you may not change this target's role")
	}

	if err := s.sessions.UpdateRole(ctx, targetDeviceID, role); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperr.NotFound("target session not found")
		}
		s.log.Error().Err(err).Str("op", "change_role").Msg("role update failed")
		return err
	}

	s.log.Info().Str("op", "change_role").Str("new_role", role.String()).Str("changed_by", caller.ID).Msg("role changed")
	return nil
}

func (s *AdminService) ToggleSite(ctx context.Context, caller models.Session, enabled bool) error {
	if !authz.Can(authz.Request{Caller: caller.Role, Action: authz.ActionToggleSite}) {
		return apperr.Forbidden("only the owner may toggle the site")
	}

	if err := s.settings.SetSiteEnabled(ctx, enabled, caller.ID); err != nil {
		s.log.Error().Err(err).Str("op", "toggle_site").Msg("site setting write failed")
		return err
	}

	s.log.Info().Str("op", "toggle_site").Bool("enabled", enabled).Str("toggled_by", caller.ID).Msg("site switch updated")
	return nil
}

const (
	WaitlistDecisionApprove = "approve"
	WaitlistDecisionDeny    = "deny"
)

func (s *AdminService) ReviewWaitlist(ctx context.Context, caller models.Session, entryID string, decision string) (models.WaitingListEntry, error) {
	if !authz.Can(authz.Request{Caller: caller.Role, Action: authz.ActionReviewWaitlist}) {
		return models.WaitingListEntry{}, apperr.Forbidden("only the owner may review the waiting list")
	}

	var status models.WaitlistStatus
	switch decision {
	case WaitlistDecisionApprove:
		status = models.WaitlistApproved
	case WaitlistDecisionDeny:
		status = models.WaitlistDenied
	default:
		return models.WaitingListEntry{}, apperr.Validation("invalid decision %q", decision)
	}

	entry, err := s.waitlist.Review(ctx, entryID, status, caller.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWaitlistNotFound):
			return models.WaitingListEntry{}, apperr.NotFound("waiting list entry not found")
		case errors.Is(err, repository.ErrWaitlistAlreadyReviewed):
			return models.WaitingListEntry{}, apperr.Conflict("entry has already been reviewed")
		default:
			s.log.Error().Err(err).Str("op", "review_waitlist").Msg("review write failed")
			return models.WaitingListEntry{}, err
		}
	}

	s.log.Info().Str("op", "review_waitlist").Str("status", string(status)).Str("reviewed_by", caller.ID).Msg("waiting list entry reviewed")
	return entry, nil
}

func (s *AdminService) ListSessions(ctx context.Context, caller models.Session) ([]models.Session, error) {
	if !caller.Role.AtLeast(models.RoleAdmin) {
		return nil, apperr.Forbidden("insufficient privileges")
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", "list_sessions").Msg("session list failed")
		return nil, err
	}
	return sessions, nil
}

func (s *AdminService) ListWaitlist(ctx context.Context, caller models.Session) ([]models.WaitingListEntry, error) {
	if !authz.Can(authz.Request{Caller: caller.Role, Action: authz.ActionReviewWaitlist}) {
		return nil, apperr.Forbidden("only the owner may view the waiting list")
	}
	entries, err := s.waitlist.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", "list_waitlist").Msg("waitlist list failed")
		return nil, err
	}
	return entries, nil
}
