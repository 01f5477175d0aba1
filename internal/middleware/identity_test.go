package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
)

type stubSessions struct {
	byDevice map[string]models.Session
}

func (s *stubSessions) GetByDeviceID(_ context.Context, deviceID string) (models.Session, error) {
	session, ok := s.byDevice[deviceID]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessions) Touch(context.Context, string, string) error { return nil }

type stubBans struct {
	bannedDevices map[string]bool
	bannedIPs     map[string]bool
}

func (s *stubBans) FindMatch(_ context.Context, deviceID string, ip string) (models.BannedDevice, models.BanMatch, error) {
	if s.bannedDevices[deviceID] {
		return models.BannedDevice{DeviceID: deviceID}, models.BanMatchDevice, nil
	}
	if ip != "" && s.bannedIPs[ip] {
		return models.BannedDevice{IPAddress: ip}, models.BanMatchIP, nil
	}
	return models.BannedDevice{}, "", repository.ErrBanNotFound
}

type stubSettings struct {
	enabled bool
}

func (s *stubSettings) SiteEnabled(context.Context) (bool, error) { return s.enabled, nil }

type identityHarness struct {
	sessions *stubSessions
	bans     *stubBans
	settings *stubSettings
	router   *gin.Engine
}

func newIdentityHarness(t *testing.T) *identityHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &identityHarness{
		sessions: &stubSessions{byDevice: map[string]models.Session{}},
		bans:     &stubBans{bannedDevices: map[string]bool{}, bannedIPs: map[string]bool{}},
		settings: &stubSettings{enabled: true},
	}

	h.router = gin.New()
	protected := h.router.Group("/", Identity(h.sessions, h.bans, h.settings, zerolog.Nop()))
	protected.GET("/whoami", func(c *gin.Context) {
		session, ok := CurrentSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"role": session.Role.String()})
	})
	protected.GET("/admin", RequireAtLeast(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return h
}

func (h *identityHarness) request(path string, deviceID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if deviceID != "" {
		req.Header.Set(DeviceIDHeader, deviceID)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestIdentityMissingHeader(t *testing.T) {
	h := newIdentityHarness(t)

	rec := h.request("/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_device_id")
}

func TestIdentityUnknownDevice(t *testing.T) {
	h := newIdentityHarness(t)

	rec := h.request("/whoami", "ghost-device")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_device")
}

func TestIdentityResolvesSession(t *testing.T) {
	h := newIdentityHarness(t)
	h.sessions.byDevice["device-1"] = models.Session{ID: "s1", DeviceID: "device-1", Role: models.RoleUser}

	rec := h.request("/whoami", "device-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user")
}

func TestIdentityBannedDevice(t *testing.T) {
	h := newIdentityHarness(t)
	h.sessions.byDevice["device-1"] = models.Session{ID: "s1", DeviceID: "device-1", Role: models.RoleUser}
	h.bans.bannedDevices["device-1"] = true

	rec := h.request("/whoami", "device-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "banned")
}

func TestIdentityBannedFlagOnSession(t *testing.T) {
	h := newIdentityHarness(t)
	h.sessions.byDevice["device-1"] = models.Session{ID: "s1", DeviceID: "device-1", Role: models.RoleUser, IsBanned: true}

	rec := h.request("/whoami", "device-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIdentitySiteDisabled(t *testing.T) {
	h := newIdentityHarness(t)
	h.settings.enabled = false
	h.sessions.byDevice["user-device"] = models.Session{ID: "s1", DeviceID: "user-device", Role: models.RoleUser}
	h.sessions.byDevice["owner-device"] = models.Session{ID: "s2", DeviceID: "owner-device", Role: models.RoleOwner}

	rec := h.request("/whoami", "user-device")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "site_disabled")

	rec = h.request("/whoami", "owner-device")
	assert.Equal(t, http.StatusOK, rec.Code, "the owner rides through the kill switch")
}

func TestRequireAtLeast(t *testing.T) {
	h := newIdentityHarness(t)
	h.sessions.byDevice["user-device"] = models.Session{ID: "s1", DeviceID: "user-device", Role: models.RoleUser}
	h.sessions.byDevice["admin-device"] = models.Session{ID: "s2", DeviceID: "admin-device", Role: models.RoleAdmin}
	h.sessions.byDevice["owner-device"] = models.Session{ID: "s3", DeviceID: "owner-device", Role: models.RoleOwner}

	assert.Equal(t, http.StatusForbidden, h.request("/admin", "user-device").Code)
	assert.Equal(t, http.StatusOK, h.request("/admin", "admin-device").Code)
	assert.Equal(t, http.StatusOK, h.request("/admin", "owner-device").Code)
}
