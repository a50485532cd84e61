package config

import (
	"os"
	"testing"
	"time"
)

// unset clears a variable for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	unset(t, "DATABASE_URL", "CHECK_INTERVAL", "DIALOG_TIMEOUT", "LOCAL_TIMEZONE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.BotToken != "123:abc" {
		t.Fatalf("bot token = %q", cfg.BotToken)
	}
	if cfg.CheckInterval != 60*time.Second {
		t.Fatalf("check interval = %s, want 60s", cfg.CheckInterval)
	}
	if cfg.DialogTimeout != 600*time.Second {
		t.Fatalf("dialog timeout = %s, want 600s", cfg.DialogTimeout)
	}
	if cfg.LocalTimezone == nil {
		t.Fatalf("local timezone not resolved")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHECK_INTERVAL", "30s")
	t.Setenv("DIALOG_TIMEOUT", "5m")
	t.Setenv("LOCAL_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.CheckInterval != 30*time.Second {
		t.Fatalf("check interval = %s, want 30s", cfg.CheckInterval)
	}
	if cfg.DialogTimeout != 5*time.Minute {
		t.Fatalf("dialog timeout = %s, want 5m", cfg.DialogTimeout)
	}
	if cfg.LocalTimezone != time.UTC {
		t.Fatalf("timezone = %v, want UTC", cfg.LocalTimezone)
	}
}

func TestLoadInvalidTimezoneFallsBack(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("LOCAL_TIMEZONE", "Not/AZone")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LocalTimezone != time.Local {
		t.Fatalf("expected fallback to system local, got %v", cfg.LocalTimezone)
	}
}
