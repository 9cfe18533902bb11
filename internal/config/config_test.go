package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	// clear env vars
	_ = os.Unsetenv("PODGENIUS_HTTP_PORT")
	_ = os.Unsetenv("PODGENIUS_STORE_DRIVER")
	_ = os.Unsetenv("PODGENIUS_EXA_BASE_URL")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 || cfg.StoreDriver != "file" || cfg.ExaBaseURL != "https://api.exa.ai" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("PODGENIUS_HTTP_PORT", "9999")
	defer func() { _ = os.Unsetenv("PODGENIUS_HTTP_PORT") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9999 {
		t.Fatalf("http port env override failed, got %d", cfg.HTTPPort)
	}
}

func TestResolveDefaults_SQLitePathDerived(t *testing.T) {
	cfg := &Config{StoreDriver: "sqlite", DataDir: "/tmp/pg"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.SQLitePath != "/tmp/pg/podgenius.db" {
		t.Fatalf("unexpected sqlite path: %s", cfg.SQLitePath)
	}
}

func TestResolveDefaults_AutoMapsToFile(t *testing.T) {
	cfg := &Config{StoreDriver: "auto"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreDriver != "file" {
		t.Fatalf("auto should resolve to file, got %s", cfg.StoreDriver)
	}
}

func TestResolveDefaults_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{StoreDriver: "redis"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestResolveDefaults_PostgresRequiresDSN(t *testing.T) {
	cfg := &Config{StoreDriver: "postgres"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for postgres without DSN")
	}
	cfg.PostgresDSN = "postgres://localhost/podgenius"
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve with DSN: %v", err)
	}
}

func TestGetHTTPAddr(t *testing.T) {
	cfg := &Config{HTTPPort: 8080}
	if got := cfg.GetHTTPAddr(); got != ":8080" {
		t.Fatalf("unexpected addr: %s", got)
	}
}
