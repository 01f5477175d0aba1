package models

import "time"

// SiteSettingKeyEnabled is the singleton kill-switch row. An absent row
// means the site is enabled.
const SiteSettingKeyEnabled = "site_enabled"

type SiteSetting struct {
	Key       string
	Enabled   bool
	UpdatedBy string
	UpdatedAt time.Time
}
