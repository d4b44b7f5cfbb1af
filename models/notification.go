package models

import "time"

const NotificationTable = "lab_notifications"

const (
	NotifInfo    = "info"
	NotifSuccess = "success"
	NotifWarning = "warning"
	NotifError   = "error"
)

// Notification is an in-app message emitted as a side effect of lifecycle
// transitions. Only the read flag is ever mutated after creation.
type Notification struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"size:1000;not null" json:"message"`
	Type    string `gorm:"size:20;not null;default:'info'" json:"type"`
	Read    bool   `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return NotificationTable }
