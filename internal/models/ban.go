package models

import "time"

// BannedDevice is the authoritative ban record. A device id match or an IP
// match blocks independently; Session.IsBanned is only a cache of this row.
type BannedDevice struct {
	ID        string
	DeviceID  string
	IPAddress string // empty for device-only bans
	BannedBy  string // session id of the banning moderator
	CreatedAt time.Time
}

type BanMatch string

const (
	BanMatchDevice BanMatch = "device"
	BanMatchIP     BanMatch = "ip"
)
