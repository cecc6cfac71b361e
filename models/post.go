package models

import "time"

// Post represents a wall post created by a user. IsAnonymous is a per-post
// author-reveal flag; the owning user is always stored.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Category    string    `gorm:"size:32;not null;default:'其它'" json:"category"`
	IsAnonymous bool      `gorm:"not null" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments    []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
