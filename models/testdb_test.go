package models

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq uint64

// openTestDB opens a private in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared&_foreign_keys=on", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Session{}, &Post{}, &Comment{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) User {
	t.Helper()
	user := User{
		UID:          fmt.Sprintf("uid-%s", username),
		Username:     username,
		QQ:           "10001",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashuZ",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}
