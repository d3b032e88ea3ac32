package config

import (
	"os"
	"testing"
	"time"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_RequiresSecrets(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("JWT_REFRESH_SECRET")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}

	t.Setenv("JWT_SECRET", "access-secret")
	os.Unsetenv("JWT_REFRESH_SECRET")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_REFRESH_SECRET is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Server.Env)
	}
	if cfg.JWT.AccessTTL != 24*time.Hour {
		t.Errorf("expected default access TTL 24h, got %s", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Errorf("expected default refresh TTL 168h, got %s", cfg.JWT.RefreshTTL)
	}
	if cfg.DB.Port != "5432" {
		t.Errorf("expected default db port 5432, got %s", cfg.DB.Port)
	}
	if cfg.DB.MaxIdleConns != 10 {
		t.Errorf("expected default max idle conns 10, got %d", cfg.DB.MaxIdleConns)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_ACCESS_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if !cfg.Server.IsProduction() {
		t.Error("expected IsProduction() true for APP_ENV=production")
	}
	if cfg.JWT.AccessTTL != time.Hour {
		t.Errorf("expected access TTL 1h, got %s", cfg.JWT.AccessTTL)
	}
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "clinic",
		Password: "s3cret",
		DBName:   "clinic_auth",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=clinic password=s3cret dbname=clinic_auth sslmode=require"
	if got := db.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
