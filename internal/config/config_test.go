package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "5000")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "portfolio")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "portfolio")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin123")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setBaseEnv(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7d token ttl, got %v", c.Auth.TokenTTL)
	}
	if !c.Tracker.TrackLocal {
		t.Fatalf("expected TrackLocal default true")
	}
	if c.Geo.BaseURL != "http://ip-api.com" {
		t.Fatalf("unexpected geo base url %q", c.Geo.BaseURL)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected local sslmode default, got %q", c.DB.SSLMode)
	}
	if c.Upload.Dir != "uploads" {
		t.Fatalf("unexpected upload dir %q", c.Upload.Dir)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoadProductionRequiresPasswordHash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_SSLMODE", "require")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ADMIN_PASSWORD_HASH") {
		t.Fatalf("expected ADMIN_PASSWORD_HASH error, got %v", err)
	}
}

func TestTrackLocalFlagParses(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TRACK_LOCAL", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Tracker.TrackLocal {
		t.Fatalf("expected TrackLocal false")
	}
}
