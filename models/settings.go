package models

import "time"

// NotificationSettings is a single-row table holding the admin notification
// preferences.
type NotificationSettings struct {
	ID                 uint      `json:"-" gorm:"primaryKey"`
	NotificationEmail  string    `json:"notificationEmail"`
	NotifyOnNewDoctors bool      `json:"notifyOnNewDoctors"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SettingsRowID is the primary key of the only settings row.
const SettingsRowID = 1
