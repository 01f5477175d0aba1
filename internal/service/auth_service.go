package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"clubportal/api/internal/apperr"
	"clubportal/api/internal/ids"
	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
	"clubportal/api/internal/security"
)

// AuthService runs the login pipeline: ban guard, site switch, waiting-list
// gate, then session upsert. Owners skip the switch and the gate; nobody
// skips the ban guard.
type AuthService struct {
	sessions SessionStore
	bans     BanStore
	waitlist WaitlistStore
	profiles ProfileStore
	settings SettingsStore
	secrets  security.TierSecrets
	log      zerolog.Logger
}

func NewAuthService(
	sessions SessionStore,
	bans BanStore,
	waitlist WaitlistStore,
	profiles ProfileStore,
	settings SettingsStore,
	secrets security.TierSecrets,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		sessions: sessions,
		bans:     bans,
		waitlist: waitlist,
		profiles: profiles,
		settings: settings,
		secrets:  secrets,
		log:      log,
	}
}

type AuthenticateInput struct {
	Passcode  string
	DeviceID  string
	IPAddress string
}

// AuthResult is either a waiting-list response (Waiting set, client should
// poll) or a successful session.
type AuthResult struct {
	Waiting       bool
	Message       string
	Session       models.Session
	NeedsUsername bool
}

const waitingMessage = "your request is awaiting approval"

func (s *AuthService) Authenticate(ctx context.Context, input AuthenticateInput) (AuthResult, error) {
	deviceID := strings.TrimSpace(input.DeviceID)
	if deviceID == "" {
		return AuthResult{}, apperr.Validation("deviceId is required")
	}

	// The ban guard runs before everything else, on every attempt, so a ban
	// issued between requests takes effect immediately.
	if _, match, err := s.bans.FindMatch(ctx, deviceID, input.IPAddress); err == nil {
		s.log.Warn().Str("op", "authenticate").Str("match", string(match)).Msg("banned device rejected")
		return AuthResult{}, apperr.Forbidden("this device is banned")
	} else if !errors.Is(err, repository.ErrBanNotFound) {
		s.log.Error().Err(err).Str("op", "authenticate").Msg("ban lookup failed")
		return AuthResult{}, err
	}

	role, ok := s.secrets.MatchTier(input.Passcode)
	if !ok {
		return AuthResult{}, apperr.Unauthorized("invalid passcode")
	}

	if role != models.RoleOwner {
		enabled, err := s.settings.SiteEnabled(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("op", "authenticate").Msg("site setting lookup failed")
			return AuthResult{}, err
		}
		if !enabled {
			return AuthResult{}, apperr.Forbidden("the site is currently disabled")
		}

		if result, gated, err := s.waitlistGate(ctx, deviceID, input.IPAddress); err != nil {
			return AuthResult{}, err
		} else if gated {
			return result, nil
		}
	}

	session, err := s.sessions.Upsert(ctx, models.Session{
		ID:        ids.New(),
		DeviceID:  deviceID,
		Role:      role,
		IPAddress: input.IPAddress,
	})
	if err != nil {
		s.log.Error().Err(err).Str("op", "authenticate").Msg("session upsert failed")
		return AuthResult{}, err
	}

	needsUsername := false
	if _, err := s.profiles.GetBySessionID(ctx, session.ID); err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			s.log.Error().Err(err).Str("op", "authenticate").Msg("profile lookup failed")
			return AuthResult{}, err
		}
		needsUsername = true
	}

	return AuthResult{Session: session, NeedsUsername: needsUsername}, nil
}

// waitlistGate applies the admission state machine for non-owner logins.
// A device with an existing session has already passed admission and is not
// gated again. Returns gated=true with the result when login must not
// proceed to session issuance.
func (s *AuthService) waitlistGate(ctx context.Context, deviceID string, ip string) (AuthResult, bool, error) {
	if _, err := s.sessions.GetByDeviceID(ctx, deviceID); err == nil {
		return AuthResult{}, false, nil
	} else if !errors.Is(err, repository.ErrSessionNotFound) {
		s.log.Error().Err(err).Str("op", "authenticate").Msg("session lookup failed")
		return AuthResult{}, false, err
	}

	entry, err := s.waitlist.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, repository.ErrWaitlistNotFound) {
			s.log.Error().Err(err).Str("op", "authenticate").Msg("waitlist lookup failed")
			return AuthResult{}, false, err
		}

		// First contact from this device: queue it. A concurrent first login
		// may win the insert; either way the state is pending.
		if _, err := s.waitlist.CreateIfAbsent(ctx, models.WaitingListEntry{
			ID:        ids.New(),
			DeviceID:  deviceID,
			IPAddress: ip,
		}); err != nil {
			s.log.Error().Err(err).Str("op", "authenticate").Msg("waitlist insert failed")
			return AuthResult{}, false, err
		}
		return AuthResult{Waiting: true, Message: waitingMessage}, true, nil
	}

	switch entry.Status {
	case models.WaitlistPending:
		return AuthResult{Waiting: true, Message: waitingMessage}, true, nil
	case models.WaitlistDenied:
		return AuthResult{}, false, apperr.Forbidden("access denied")
	case models.WaitlistApproved:
		return AuthResult{}, false, nil
	default:
		return AuthResult{}, false, apperr.Internal("unknown waiting list status %q", entry.Status)
	}
}

// SetUsername validates and stores the caller's display name.
func (s *AuthService) SetUsername(ctx context.Context, caller models.Session, username string) (models.Profile, error) {
	username = strings.TrimSpace(username)
	if err := models.ValidateUsername(username); err != nil {
		return models.Profile{}, apperr.Validation("%s", err.Error())
	}

	profile, err := s.profiles.Upsert(ctx, caller.ID, username)
	if err != nil {
		s.log.Error().Err(err).Str("op", "set_username").Msg("profile upsert failed")
		return models.Profile{}, err
	}
	return profile, nil
}

// Profile returns the caller's profile, or ErrProfileNotFound wrapped as a
// not-found error when no username has been chosen yet.
func (s *AuthService) Profile(ctx context.Context, caller models.Session) (models.Profile, error) {
	profile, err := s.profiles.GetBySessionID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return models.Profile{}, apperr.NotFound("no username set")
		}
		s.log.Error().Err(err).Str("op", "profile").Msg("profile lookup failed")
		return models.Profile{}, err
	}
	return profile, nil
}
