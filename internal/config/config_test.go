package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "secret-pass")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DEDUP_WINDOW_MS", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DEDUP_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DedupWindow != 5*time.Second {
		t.Errorf("DedupWindow = %v, want 5s", cfg.DedupWindow)
	}
	if cfg.JWTSecret != "secret-pass" {
		t.Errorf("JWTSecret should fall back to ADMIN_PASSWORD, got %q", cfg.JWTSecret)
	}
	if cfg.DatabaseDriver != "postgres" || cfg.DedupStore != "memory" {
		t.Errorf("unexpected defaults: driver=%q dedup=%q", cfg.DatabaseDriver, cfg.DedupStore)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing admin password", map[string]string{"ADMIN_PASSWORD": ""}},
		{"non numeric window", map[string]string{"ADMIN_PASSWORD": "x", "DEDUP_WINDOW_MS": "soon"}},
		{"negative window", map[string]string{"ADMIN_PASSWORD": "x", "DEDUP_WINDOW_MS": "-5"}},
		{"unknown driver", map[string]string{"ADMIN_PASSWORD": "x", "DATABASE_DRIVER": "mysql"}},
		{"unknown dedup store", map[string]string{"ADMIN_PASSWORD": "x", "DEDUP_STORE": "redis"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"ADMIN_PASSWORD", "DEDUP_WINDOW_MS", "DATABASE_DRIVER", "DEDUP_STORE"} {
				t.Setenv(k, tc.env[k])
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
