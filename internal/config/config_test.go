package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Auth.SessionTTL)
	}
	if cfg.Pagination.DefaultPageSize != 25 || cfg.Pagination.MaxPageSize != 250 {
		t.Fatalf("unexpected pagination defaults: %+v", cfg.Pagination)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected max body bytes: %d", cfg.Server.MaxBodyBytes)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MYREST_SERVER_ADDR", ":9999")
	t.Setenv("MYREST_DATABASE_DSN", "postgres://localhost/myrest")
	t.Setenv("MYREST_AUTH_SESSION_TTL", "30m")
	t.Setenv("MYREST_PAGINATION_MAX_PAGE_SIZE", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "postgres://localhost/myrest" {
		t.Fatalf("unexpected dsn: %s", cfg.Database.DSN)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected session ttl: %v", cfg.Auth.SessionTTL)
	}
	if cfg.Pagination.MaxPageSize != 100 {
		t.Fatalf("unexpected max page size: %d", cfg.Pagination.MaxPageSize)
	}
}

func TestLoadRejectsBadPagination(t *testing.T) {
	t.Setenv("MYREST_PAGINATION_DEFAULT_PAGE_SIZE", "500")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for default_page_size above the ceiling")
	}
}
