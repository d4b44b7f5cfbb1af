package models

import "time"

const LoginSessionTable = "lab_login_sessions"

// LoginSession is one login/logout record. SessionDuration is filled in
// seconds when the session ends.
type LoginSession struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string `gorm:"type:uuid;index;not null" json:"userId"`
	UserEmail string `gorm:"size:255;not null" json:"userEmail"`
	UserName  string `gorm:"size:255;not null" json:"userName"`
	UserRole  string `gorm:"size:20;not null" json:"userRole"`

	LoginTime       time.Time  `gorm:"index;not null" json:"loginTime"`
	LogoutTime      *time.Time `json:"logoutTime,omitempty"`
	SessionDuration *int64     `json:"sessionDuration,omitempty"`
	IsActive        bool       `gorm:"index;not null;default:true" json:"isActive"`

	IPAddress string `gorm:"size:45" json:"-"`
	UserAgent string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (LoginSession) TableName() string { return LoginSessionTable }
