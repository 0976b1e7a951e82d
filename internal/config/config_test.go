package config

import (
	"log/slog"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "./data" || cfg.ContentPath != "./content" {
		t.Errorf("defaults = %s / %s", cfg.DataDir, cfg.ContentPath)
	}
	if cfg.EventsEnabled {
		t.Error("events must default off")
	}
	if cfg.FillBlankPolicy != "first-try" {
		t.Errorf("fill-blank policy = %s, want first-try", cfg.FillBlankPolicy)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://umka:umka@db:5432/umka")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("FILL_BLANK_POLICY", "partial")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL == "" || !cfg.EventsEnabled || cfg.FillBlankPolicy != "partial" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("slog level = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	t.Setenv("FILL_BLANK_POLICY", "double-or-nothing")
	if _, err := Load(); err == nil {
		t.Error("invalid policy must fail loudly")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
