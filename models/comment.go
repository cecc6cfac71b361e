package models

import "time"

// Comment represents a reply to a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"index;not null" json:"post_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsAnonymous bool      `gorm:"not null" json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
