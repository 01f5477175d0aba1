package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
)

// DeviceIDHeader carries the opaque client-generated device identifier. It
// is the only identity credential on protected routes; the session and role
// are resolved server-side from it on every request.
const DeviceIDHeader = "X-Device-Id"

const sessionContextKey = "current_session"

type SessionResolver interface {
	GetByDeviceID(ctx context.Context, deviceID string) (models.Session, error)
	Touch(ctx context.Context, deviceID string, ip string) error
}

type BanChecker interface {
	FindMatch(ctx context.Context, deviceID string, ip string) (models.BannedDevice, models.BanMatch, error)
}

type SiteChecker interface {
	SiteEnabled(ctx context.Context) (bool, error)
}

// Identity resolves the caller's session from the device header, enforces
// the ban lists (device and ip, checked fresh per request) and the global
// site switch for non-owners, then stores the session in the gin context.
func Identity(sessions SessionResolver, bans BanChecker, settings SiteChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		if deviceID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_device_id"})
			return
		}

		session, err := sessions.GetByDeviceID(c.Request.Context(), deviceID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown_device"})
				return
			}
			log.Error().Err(err).Str("op", "identity").Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}

		// Consult the authoritative ban list, not just the cached flag, so a
		// ban issued after session creation bites immediately.
		if _, _, err := bans.FindMatch(c.Request.Context(), deviceID, c.ClientIP()); err == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "banned"})
			return
		} else if !errors.Is(err, repository.ErrBanNotFound) {
			log.Error().Err(err).Str("op", "identity").Msg("ban lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}
		if session.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "banned"})
			return
		}

		if session.Role != models.RoleOwner {
			enabled, err := settings.SiteEnabled(c.Request.Context())
			if err != nil {
				log.Error().Err(err).Str("op", "identity").Msg("site setting lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
				return
			}
			if !enabled {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "site_disabled"})
				return
			}
		}

		_ = sessions.Touch(c.Request.Context(), deviceID, c.ClientIP())

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// CurrentSession retrieves the session stored by Identity.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}
