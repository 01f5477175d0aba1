package service

import (
	"context"
	"time"

	"clubportal/api/internal/models"
)

// Store interfaces are declared on the consumer side; the pgx repositories
// satisfy them. Service tests substitute in-memory fakes.

type SessionStore interface {
	Upsert(ctx context.Context, session models.Session) (models.Session, error)
	GetByDeviceID(ctx context.Context, deviceID string) (models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) error
	UpdateRole(ctx context.Context, deviceID string, role models.Role) error
}

type BanStore interface {
	FindMatch(ctx context.Context, deviceID string, ip string) (models.BannedDevice, models.BanMatch, error)
	GetByDeviceID(ctx context.Context, deviceID string) (models.BannedDevice, error)
	Ban(ctx context.Context, ban models.BannedDevice) error
	Unban(ctx context.Context, deviceID string) error
	List(ctx context.Context) ([]models.BannedDevice, error)
}

type WaitlistStore interface {
	CreateIfAbsent(ctx context.Context, entry models.WaitingListEntry) (bool, error)
	GetByDeviceID(ctx context.Context, deviceID string) (models.WaitingListEntry, error)
	GetByID(ctx context.Context, id string) (models.WaitingListEntry, error)
	List(ctx context.Context) ([]models.WaitingListEntry, error)
	Review(ctx context.Context, id string, status models.WaitlistStatus, reviewerSessionID string) (models.WaitingListEntry, error)
}

type ProfileStore interface {
	Upsert(ctx context.Context, sessionID string, username string) (models.Profile, error)
	GetBySessionID(ctx context.Context, sessionID string) (models.Profile, error)
}

type ChatStore interface {
	Create(ctx context.Context, message models.ChatMessage) (models.ChatMessage, error)
	GetByID(ctx context.Context, id string) (models.ChatMessage, error)
	ListVisible(ctx context.Context, viewerSessionID string, limit int) ([]models.ChatMessage, error)
	ListRecentUndeletedByAuthor(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	SoftDelete(ctx context.Context, id string) error
	Hide(ctx context.Context, id string, sessionID string) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SettingsStore interface {
	SiteEnabled(ctx context.Context) (bool, error)
	SetSiteEnabled(ctx context.Context, enabled bool, updatedBy string) error
}
