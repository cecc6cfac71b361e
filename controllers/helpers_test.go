package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/qiume/talkwall/config"
	"github.com/qiume/talkwall/middleware"
	"github.com/qiume/talkwall/models"
	"github.com/qiume/talkwall/routes"
)

var testDBSeq uint64

// TestMain points the response cache at a closed port so a Redis instance
// on the developer's machine cannot share entries across per-test databases.
func TestMain(m *testing.M) {
	os.Setenv("REDIS_HOST", "127.0.0.1")
	os.Setenv("REDIS_PORT", "1")
	os.Exit(m.Run())
}

// newTestEnv boots a fully wired router on a private in-memory database.
// Users listed in adminUIDs are granted admin.
func newTestEnv(t *testing.T, adminUIDs ...string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared&_foreign_keys=on", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Post{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return newRouterFor(t, db, adminUIDs...), db
}

// newRouterFor wires a router over an existing database. Useful when the
// admin allow-list must name a uid generated by an earlier registration.
func newRouterFor(t *testing.T, db *gorm.DB, adminUIDs ...string) *gin.Engine {
	t.Helper()
	cfg := config.AppConfig{
		AppPort:        "8080",
		GinMode:        "test",
		GinPath:        filepath.Join(t.TempDir(), "gin.log"),
		LogLevel:       "error",
		AllowedOrigins: []string{"http://localhost:5173"},
		StaticDir:      t.TempDir(),
		AdminUIDs:      adminUIDs,
	}
	return routes.SetupRouter(db, cfg)
}

// doJSON performs a request with an optional JSON body and session cookie.
func doJSON(r http.Handler, method, path, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerUser creates an account and fails the test on anything but 201.
func registerUser(t *testing.T, r http.Handler, username, qq, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"qq":%q,"password":%q}`, username, qq, password)
	w := doJSON(r, http.MethodPost, "/api/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
}

// loginUser signs in and returns the issued session cookie value.
func loginUser(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	w := doJSON(r, http.MethodPost, "/api/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatalf("login %s: no session cookie in response", username)
	return ""
}

// uidOf looks up a user's public uid by username.
func uidOf(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", username, err)
	}
	return user.UID
}

// decodeJSON unmarshals a response body into out.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
}
