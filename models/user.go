package models

import "time"

const UserTable = "lab_users"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Email  string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role   string `gorm:"size:20;not null;default:'student'" json:"role"`
	RollNo string `gorm:"size:40" json:"rollNo,omitempty"`
	Mobile string `gorm:"size:20" json:"mobile,omitempty"`

	RegisteredAt time.Time  `gorm:"not null" json:"registeredAt"`
	LastLoginAt  *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt   *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount   int64      `gorm:"not null;default:0" json:"loginCount"`
	IsActive     bool       `gorm:"not null;default:false" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
