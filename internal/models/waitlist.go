package models

import "time"

type WaitlistStatus string

const (
	WaitlistPending  WaitlistStatus = "pending"
	WaitlistApproved WaitlistStatus = "approved"
	WaitlistDenied   WaitlistStatus = "denied"
)

func (s WaitlistStatus) IsValid() bool {
	return s == WaitlistPending || s == WaitlistApproved || s == WaitlistDenied
}

// WaitingListEntry gates first-time non-owner logins. One entry per device
// identifier; pending transitions to approved or denied exactly once, by an
// owner review, and entries never expire on their own.
type WaitingListEntry struct {
	ID         string
	DeviceID   string
	IPAddress  string
	Status     WaitlistStatus
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
}
