package models

import "time"

// User represents an account of the recipe service. Email is the login name.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password    string     `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Name        string     `json:"name" gorm:"type:varchar(255)"`
	IsActive    bool       `json:"is_active" gorm:"not null"`
	IsStaff     bool       `json:"is_staff" gorm:"not null"`
	IsSuperuser bool       `json:"is_superuser" gorm:"not null"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AuthToken is the opaque credential issued to a user. Each user holds at
// most one token, which is reused across logins.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;type:varchar(40)"`
	UserID    string    `gorm:"uniqueIndex;type:varchar(36);not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}
