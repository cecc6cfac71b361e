package config

import (
	"reflect"
	"testing"
)

func TestIsAdmin(t *testing.T) {
	cfg := AppConfig{AdminUIDs: []string{"uid-a", "uid-b"}}

	if !cfg.IsAdmin("uid-a") || !cfg.IsAdmin("uid-b") {
		t.Fatal("listed uid not recognized as admin")
	}
	if cfg.IsAdmin("uid-c") {
		t.Fatal("unlisted uid recognized as admin")
	}
	// Matching is exact, no prefixes or case folding
	if cfg.IsAdmin("uid-A") || cfg.IsAdmin("uid-a ") || cfg.IsAdmin("uid") {
		t.Fatal("admin matching is not exact")
	}

	empty := AppConfig{}
	if empty.IsAdmin("uid-a") {
		t.Fatal("empty allow-list granted admin")
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" uid-a, uid-b ,, uid-c,")
	want := []string{"uid-a", "uid-b", "uid-c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitAndTrim = %v, want %v", got, want)
	}
	if got := splitAndTrim(""); len(got) != 0 {
		t.Fatalf("splitAndTrim(\"\") = %v, want empty", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg AppConfig
	applyDefaults(&cfg)

	if cfg.DBDriver != "sqlite" {
		t.Fatalf("default driver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.SQLitePath == "" || cfg.AppPort == "" {
		t.Fatalf("defaults incomplete: %+v", cfg)
	}
	if cfg.SessionSweepMinutes <= 0 {
		t.Fatalf("sweep interval default = %d", cfg.SessionSweepMinutes)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("ADMIN_UIDS", "uid-a , uid-b")
	t.Setenv("SESSION_SWEEP_MINUTES", "5")

	var cfg AppConfig
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.AppPort != "9999" || cfg.DBDriver != "mysql" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AdminUIDs, []string{"uid-a", "uid-b"}) {
		t.Fatalf("AdminUIDs = %v", cfg.AdminUIDs)
	}
	if cfg.SessionSweepMinutes != 5 {
		t.Fatalf("SessionSweepMinutes = %d", cfg.SessionSweepMinutes)
	}
}
