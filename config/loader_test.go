package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("default log level = %q, want error", cfg.Logging.Level)
	}
	if cfg.Query.CaseSensitive {
		t.Error("case sensitivity should default to off")
	}
	if cfg.Query.StrictFields {
		t.Error("strict fields should default to off")
	}
	if cfg.Query.WeekStart != "monday" {
		t.Errorf("default week start = %q, want monday", cfg.Query.WeekStart)
	}
}

func TestSettings(t *testing.T) {
	ref := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	cfg := &Config{}
	cfg.Query.CaseSensitive = true
	cfg.Query.WeekStart = "sunday"
	cfg.Keywords.States = map[string][]string{
		"Blocked": {"blocked", "stuck", "waiting"},
	}

	s := cfg.Settings(ref)
	if !s.CaseSensitive {
		t.Error("case sensitivity not carried into settings")
	}
	if s.WeekStart != time.Sunday {
		t.Errorf("week start = %v, want Sunday", s.WeekStart)
	}
	if !s.Reference.Equal(ref) {
		t.Errorf("reference = %v, want %v", s.Reference, ref)
	}

	// Configured vocabularies merge over the defaults.
	if got := s.States.Canonical("stuck"); got != "blocked" {
		t.Errorf("Canonical(stuck) = %q, want blocked", got)
	}
	if got := s.States.Canonical("open"); got != "todo" {
		t.Errorf("Canonical(open) = %q, want todo (defaults kept)", got)
	}
	if got := s.Priorities.Canonical("hi"); got != "high" {
		t.Errorf("Canonical(hi) = %q, want high", got)
	}
}

func TestSettingsDefaultWeekStart(t *testing.T) {
	cfg := &Config{}
	cfg.Query.WeekStart = "monday"
	s := cfg.Settings(time.Now())
	if s.WeekStart != time.Monday {
		t.Errorf("week start = %v, want Monday", s.WeekStart)
	}
}
