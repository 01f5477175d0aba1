package service

import (
	"context"
	"time"

	"clubportal/api/internal/models"
	"clubportal/api/internal/repository"
)

// In-memory stores backing the service tests. Behavior mirrors the pgx
// repositories, including sentinel errors and upsert semantics.

type fakeSessionStore struct {
	byDevice map[string]models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byDevice: make(map[string]models.Session)}
}

func (f *fakeSessionStore) Upsert(_ context.Context, session models.Session) (models.Session, error) {
	now := time.Now()
	if existing, ok := f.byDevice[session.DeviceID]; ok {
		existing.Role = session.Role
		existing.IPAddress = session.IPAddress
		existing.LastActiveAt = now
		f.byDevice[session.DeviceID] = existing
		return existing, nil
	}
	session.CreatedAt = now
	session.LastActiveAt = now
	f.byDevice[session.DeviceID] = session
	return session, nil
}

func (f *fakeSessionStore) GetByDeviceID(_ context.Context, deviceID string) (models.Session, error) {
	session, ok := f.byDevice[deviceID]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) List(_ context.Context) ([]models.Session, error) {
	sessions := make([]models.Session, 0, len(f.byDevice))
	for _, session := range f.byDevice {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (f *fakeSessionStore) DeleteByDeviceID(_ context.Context, deviceID string) error {
	if _, ok := f.byDevice[deviceID]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(f.byDevice, deviceID)
	return nil
}

func (f *fakeSessionStore) UpdateRole(_ context.Context, deviceID string, role models.Role) error {
	session, ok := f.byDevice[deviceID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.Role = role
	f.byDevice[deviceID] = session
	return nil
}

func (f *fakeSessionStore) Touch(_ context.Context, deviceID string, ip string) error {
	session, ok := f.byDevice[deviceID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.LastActiveAt = time.Now()
	if ip != "" {
		session.IPAddress = ip
	}
	f.byDevice[deviceID] = session
	return nil
}

func (f *fakeSessionStore) setBanned(deviceID string, banned bool) {
	if session, ok := f.byDevice[deviceID]; ok {
		session.IsBanned = banned
		f.byDevice[deviceID] = session
	}
}

type fakeBanStore struct {
	byDevice map[string]models.BannedDevice
	sessions *fakeSessionStore
}

func newFakeBanStore(sessions *fakeSessionStore) *fakeBanStore {
	return &fakeBanStore{byDevice: make(map[string]models.BannedDevice), sessions: sessions}
}

func (f *fakeBanStore) FindMatch(_ context.Context, deviceID string, ip string) (models.BannedDevice, models.BanMatch, error) {
	if ban, ok := f.byDevice[deviceID]; ok {
		return ban, models.BanMatchDevice, nil
	}
	if ip != "" {
		for _, ban := range f.byDevice {
			if ban.IPAddress != "" && ban.IPAddress == ip {
				return ban, models.BanMatchIP, nil
			}
		}
	}
	return models.BannedDevice{}, "", repository.ErrBanNotFound
}

func (f *fakeBanStore) GetByDeviceID(_ context.Context, deviceID string) (models.BannedDevice, error) {
	ban, ok := f.byDevice[deviceID]
	if !ok {
		return models.BannedDevice{}, repository.ErrBanNotFound
	}
	return ban, nil
}

func (f *fakeBanStore) Ban(_ context.Context, ban models.BannedDevice) error {
	ban.CreatedAt = time.Now()
	f.byDevice[ban.DeviceID] = ban
	if f.sessions != nil {
		f.sessions.setBanned(ban.DeviceID, true)
	}
	return nil
}

func (f *fakeBanStore) Unban(_ context.Context, deviceID string) error {
	if _, ok := f.byDevice[deviceID]; !ok {
		return repository.ErrBanNotFound
	}
	delete(f.byDevice, deviceID)
	if f.sessions != nil {
		f.sessions.setBanned(deviceID, false)
	}
	return nil
}

func (f *fakeBanStore) List(_ context.Context) ([]models.BannedDevice, error) {
	bans := make([]models.BannedDevice, 0, len(f.byDevice))
	for _, ban := range f.byDevice {
		bans = append(bans, ban)
	}
	return bans, nil
}

type fakeWaitlistStore struct {
	byDevice map[string]models.WaitingListEntry
}

func newFakeWaitlistStore() *fakeWaitlistStore {
	return &fakeWaitlistStore{byDevice: make(map[string]models.WaitingListEntry)}
}

func (f *fakeWaitlistStore) CreateIfAbsent(_ context.Context, entry models.WaitingListEntry) (bool, error) {
	if _, ok := f.byDevice[entry.DeviceID]; ok {
		return false, nil
	}
	entry.Status = models.WaitlistPending
	entry.CreatedAt = time.Now()
	f.byDevice[entry.DeviceID] = entry
	return true, nil
}

func (f *fakeWaitlistStore) GetByDeviceID(_ context.Context, deviceID string) (models.WaitingListEntry, error) {
	entry, ok := f.byDevice[deviceID]
	if !ok {
		return models.WaitingListEntry{}, repository.ErrWaitlistNotFound
	}
	return entry, nil
}

func (f *fakeWaitlistStore) GetByID(_ context.Context, id string) (models.WaitingListEntry, error) {
	for _, entry := range f.byDevice {
		if entry.ID == id {
			return entry, nil
		}
	}
	return models.WaitingListEntry{}, repository.ErrWaitlistNotFound
}

func (f *fakeWaitlistStore) List(_ context.Context) ([]models.WaitingListEntry, error) {
	entries := make([]models.WaitingListEntry, 0, len(f.byDevice))
	for _, entry := range f.byDevice {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeWaitlistStore) Review(_ context.Context, id string, status models.WaitlistStatus, reviewerSessionID string) (models.WaitingListEntry, error) {
	for deviceID, entry := range f.byDevice {
		if entry.ID != id {
			continue
		}
		if entry.Status != models.WaitlistPending {
			return models.WaitingListEntry{}, repository.ErrWaitlistAlreadyReviewed
		}
		now := time.Now()
		entry.Status = status
		entry.ReviewedBy = &reviewerSessionID
		entry.ReviewedAt = &now
		f.byDevice[deviceID] = entry
		return entry, nil
	}
	return models.WaitingListEntry{}, repository.ErrWaitlistNotFound
}

type fakeProfileStore struct {
	bySession map[string]models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{bySession: make(map[string]models.Profile)}
}

func (f *fakeProfileStore) Upsert(_ context.Context, sessionID string, username string) (models.Profile, error) {
	now := time.Now()
	profile, ok := f.bySession[sessionID]
	if !ok {
		profile = models.Profile{SessionID: sessionID, CreatedAt: now}
	}
	profile.Username = username
	profile.UpdatedAt = now
	f.bySession[sessionID] = profile
	return profile, nil
}

func (f *fakeProfileStore) GetBySessionID(_ context.Context, sessionID string) (models.Profile, error) {
	profile, ok := f.bySession[sessionID]
	if !ok {
		return models.Profile{}, repository.ErrProfileNotFound
	}
	return profile, nil
}

type fakeChatStore struct {
	messages []models.ChatMessage
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{}
}

func (f *fakeChatStore) Create(_ context.Context, message models.ChatMessage) (models.ChatMessage, error) {
	// Spread creation times so recency ordering is deterministic.
	message.CreatedAt = time.Now().Add(time.Duration(len(f.messages)) * time.Millisecond)
	message.HiddenFor = nil
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeChatStore) GetByID(_ context.Context, id string) (models.ChatMessage, error) {
	for _, message := range f.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return models.ChatMessage{}, repository.ErrMessageNotFound
}

func (f *fakeChatStore) ListVisible(_ context.Context, viewerSessionID string, limit int) ([]models.ChatMessage, error) {
	var visible []models.ChatMessage
	for i := len(f.messages) - 1; i >= 0 && len(visible) < limit; i-- {
		if f.messages[i].VisibleTo(viewerSessionID) {
			visible = append(visible, f.messages[i])
		}
	}
	return visible, nil
}

func (f *fakeChatStore) ListRecentUndeletedByAuthor(_ context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	var recent []models.ChatMessage
	for i := len(f.messages) - 1; i >= 0 && len(recent) < limit; i-- {
		if f.messages[i].SessionID == sessionID && !f.messages[i].Deleted() {
			recent = append(recent, f.messages[i])
		}
	}
	return recent, nil
}

func (f *fakeChatStore) SoftDelete(_ context.Context, id string) error {
	for i := range f.messages {
		if f.messages[i].ID == id {
			if f.messages[i].DeletedAt == nil {
				now := time.Now()
				f.messages[i].DeletedAt = &now
			}
			return nil
		}
	}
	return repository.ErrMessageNotFound
}

func (f *fakeChatStore) Hide(_ context.Context, id string, sessionID string) error {
	for i := range f.messages {
		if f.messages[i].ID != id {
			continue
		}
		for _, hidden := range f.messages[i].HiddenFor {
			if hidden == sessionID {
				return nil
			}
		}
		f.messages[i].HiddenFor = append(f.messages[i].HiddenFor, sessionID)
		return nil
	}
	return nil
}

func (f *fakeChatStore) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []models.ChatMessage
	var purged int64
	for _, message := range f.messages {
		if message.DeletedAt != nil && message.DeletedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, message)
	}
	f.messages = kept
	return purged, nil
}

type fakeSettingsStore struct {
	set     bool
	enabled bool
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{}
}

func (f *fakeSettingsStore) SiteEnabled(_ context.Context) (bool, error) {
	if !f.set {
		return true, nil
	}
	return f.enabled, nil
}

func (f *fakeSettingsStore) SetSiteEnabled(_ context.Context, enabled bool, _ string) error {
	f.set = true
	f.enabled = enabled
	return nil
}
