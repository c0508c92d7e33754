package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "expenses.db"))
	cfg := Load()
	if cfg.Backend != "sqlite" {
		t.Fatalf("default backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.DebounceWindow != 500*time.Millisecond {
		t.Fatalf("default debounce window = %v", cfg.DebounceWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []Config{
		{Backend: "postgres", SQLiteDBPath: "x.db", LogLevel: "info"},
		{Backend: "sqlite", SQLiteDBPath: "", LogLevel: "info"},
		{Backend: "memory", DebounceWindow: -time.Second, LogLevel: "info"},
		{Backend: "memory", DebounceWindow: time.Minute, LogLevel: "info"},
		{Backend: "memory", LogLevel: "verbose"},
	}
	for i, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d expected validation error", i)
		}
	}
}

func TestValidateEnvOverride(t *testing.T) {
	t.Setenv("BACKEND", "memory")
	t.Setenv("DEBOUNCE_WINDOW", "50ms")
	cfg := Load()
	if cfg.Backend != "memory" {
		t.Fatalf("backend = %q, want memory", cfg.Backend)
	}
	if cfg.DebounceWindow != 50*time.Millisecond {
		t.Fatalf("debounce window = %v, want 50ms", cfg.DebounceWindow)
	}
}
