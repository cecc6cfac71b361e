package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTTL is the absolute lifetime of a login session.
const SessionTTL = 7 * 24 * time.Hour

// ErrSessionInvalid is returned for both absent and expired tokens so the
// two cases stay indistinguishable to callers.
var ErrSessionInvalid = errors.New("session invalid")

// Session stores a login session. The token doubles as the primary key;
// it is a UUIDv4, so possession implies knowledge of 122 random bits.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// AuthedUser is the identity a valid session resolves to.
type AuthedUser struct {
	ID       uint
	UID      string
	Username string
	QQ       string
}

// CreateSession issues a fresh opaque token for the user and persists it.
func CreateSession(db *gorm.DB, userID uint) (string, error) {
	now := time.Now()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}
	return session.ID, nil
}

// ResolveSession maps a token to its identity. Expired sessions are deleted
// on access and reported exactly like unknown tokens.
func ResolveSession(db *gorm.DB, token string) (*AuthedUser, error) {
	var session Session
	err := db.Preload("User").Where("id = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	if !time.Now().Before(session.ExpiresAt) {
		if err := db.Delete(&Session{}, "id = ?", token).Error; err != nil {
			return nil, err
		}
		return nil, ErrSessionInvalid
	}

	return &AuthedUser{
		ID:       session.User.ID,
		UID:      session.User.UID,
		Username: session.User.Username,
		QQ:       session.User.QQ,
	}, nil
}

// RevokeSession deletes the session row if present. Revoking an absent or
// already-expired token is a no-op success.
func RevokeSession(db *gorm.DB, token string) error {
	return db.Delete(&Session{}, "id = ?", token).Error
}

// SweepExpiredSessions removes every expired session row and reports how
// many were deleted. Lazy eviction in ResolveSession keeps correctness
// independent of this hygiene pass.
func SweepExpiredSessions(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at <= ?", time.Now()).Delete(&Session{})
	return res.RowsAffected, res.Error
}
