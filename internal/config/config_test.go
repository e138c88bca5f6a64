package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DATABASE_PATH", "LOG_LEVEL",
		"DEFAULT_TIMEZONE", "DEBUG", "WORKERS", "QUEUE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		TelegramBotToken: "test-token",
		DatabasePath:     "./data/bot.db",
		LogLevel:         "info",
		DefaultTimezone:  "Europe/Kyiv",
		Debug:            false,
		Workers:          4,
		QueueSize:        256,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFullEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("DATABASE_PATH", "/var/lib/bot/bot.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Berlin")
	t.Setenv("DEBUG", "true")
	t.Setenv("WORKERS", "8")
	t.Setenv("QUEUE_SIZE", "512")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		TelegramBotToken: "test-token",
		DatabasePath:     "/var/lib/bot/bot.db",
		LogLevel:         "debug",
		DefaultTimezone:  "Europe/Berlin",
		Debug:            true,
		Workers:          8,
		QueueSize:        512,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing token",
			env:  map[string]string{},
		},
		{
			name: "invalid timezone",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test-token",
				"DEFAULT_TIMEZONE":   "Mars/Olympus",
			},
		},
		{
			name: "non-numeric workers",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test-token",
				"WORKERS":            "many",
			},
		},
		{
			name: "zero queue size",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "test-token",
				"QUEUE_SIZE":         "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
