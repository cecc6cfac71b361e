package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a wall user. Passwords are stored as bcrypt hashes only;
// the hash is never serialized into any response.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UID          string    `gorm:"size:36;not null;uniqueIndex" json:"uid"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	QQ           string    `gorm:"size:32;not null" json:"qq"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Posts        []Post    `json:"-"`
	Comments     []Comment `json:"-"`
	Sessions     []Session `json:"-"`
}

// BeforeCreate hook ensures the timestamp is set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}
