package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/qiume/talkwall/models"
)

// StartSessionSweeper periodically deletes expired session rows. This is
// storage hygiene only: expired sessions are already evicted lazily on
// access, so nothing depends on the sweep running.
func StartSessionSweeper(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := models.SweepExpiredSessions(db)
			if err != nil {
				Sugar.Warnf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				Sugar.Infof("session sweep removed %d expired sessions", n)
			}
		}
	}()
}
