package models

import (
	"errors"
	"testing"
	"time"
)

func TestCreateSessionIssuesUniqueTokens(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		token, err := CreateSession(db, user.ID)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if len(token) != 36 {
			t.Fatalf("token %q is not a uuid", token)
		}
		if seen[token] {
			t.Fatalf("token %q issued twice", token)
		}
		seen[token] = true
	}
}

func TestResolveSession(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	token, err := CreateSession(db, user.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	authed, err := ResolveSession(db, token)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if authed.ID != user.ID || authed.UID != user.UID || authed.Username != "alice" {
		t.Fatalf("resolved identity mismatch: %+v", authed)
	}

	if _, err := ResolveSession(db, "no-such-token"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("unknown token: got %v, want ErrSessionInvalid", err)
	}
}

func TestResolveSessionExpiry(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	token, err := CreateSession(db, user.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Session lifetime is seven days from creation
	var session Session
	if err := db.First(&session, "id = ?", token).Error; err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got := session.ExpiresAt.Sub(session.CreatedAt); got != SessionTTL {
		t.Fatalf("session lifetime = %v, want %v", got, SessionTTL)
	}

	// Push the deadline into the past; the token must now behave exactly
	// like an unknown one, and the row must be gone afterwards
	expired := time.Now().Add(-time.Second)
	if err := db.Model(&Session{}).Where("id = ?", token).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire session: %v", err)
	}
	if _, err := ResolveSession(db, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("expired token: got %v, want ErrSessionInvalid", err)
	}
	var count int64
	db.Model(&Session{}).Where("id = ?", token).Count(&count)
	if count != 0 {
		t.Fatalf("expired session row not deleted")
	}
}

func TestRevokeSessionIdempotent(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	token, err := CreateSession(db, user.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := RevokeSession(db, token); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if _, err := ResolveSession(db, token); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("revoked token: got %v, want ErrSessionInvalid", err)
	}
	// Revoking again, or revoking garbage, still succeeds
	if err := RevokeSession(db, token); err != nil {
		t.Fatalf("second RevokeSession: %v", err)
	}
	if err := RevokeSession(db, "never-existed"); err != nil {
		t.Fatalf("RevokeSession of unknown token: %v", err)
	}
}

func TestSweepExpiredSessions(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "alice")

	live, err := CreateSession(db, user.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	stale, err := CreateSession(db, user.ID)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	expired := time.Now().Add(-time.Minute)
	if err := db.Model(&Session{}).Where("id = ?", stale).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire session: %v", err)
	}

	deleted, err := SweepExpiredSessions(db)
	if err != nil {
		t.Fatalf("SweepExpiredSessions: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := ResolveSession(db, live); err != nil {
		t.Fatalf("live session swept: %v", err)
	}
}
