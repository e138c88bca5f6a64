package window

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"morning_bot/internal/model"
)

func mustDayTime(t *testing.T, s string) model.DayTime {
	t.Helper()
	d, err := model.ParseDayTime(s)
	if err != nil {
		t.Fatalf("parse day time %q: %v", s, err)
	}
	return d
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %q: %v", name, err)
	}
	return loc
}

func TestInWindow(t *testing.T) {
	kyiv := mustLocation(t, "Europe/Kyiv")

	tests := []struct {
		name      string
		serverNow time.Time
		loc       *time.Location
		notify    string
		debug     bool
		want      bool
	}{
		{
			name:      "exactly at notification time",
			serverNow: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			want:      true,
		},
		{
			name:      "notification at window start boundary",
			serverNow: time.Date(2025, 6, 10, 8, 4, 30, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			want:      true,
		},
		{
			name:      "notification just before window",
			serverNow: time.Date(2025, 6, 10, 8, 5, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:04",
			want:      false,
		},
		{
			name:      "six minutes past without debug is stale",
			serverNow: time.Date(2025, 6, 10, 8, 6, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			want:      false,
		},
		{
			name:      "notification in the future",
			serverNow: time.Date(2025, 6, 10, 7, 58, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			want:      false,
		},
		{
			name:      "window respects the hour boundary",
			serverNow: time.Date(2025, 6, 10, 10, 2, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "09:59",
			want:      false,
		},
		{
			name:      "local timezone shifts the window",
			serverNow: time.Date(2025, 6, 10, 5, 2, 0, 0, time.UTC), // 08:02 in Kyiv (UTC+3 in summer)
			loc:       kyiv,
			notify:    "08:00",
			want:      true,
		},
		{
			name:      "not yet in local time",
			serverNow: time.Date(2025, 6, 10, 4, 58, 0, 0, time.UTC), // 07:58 in Kyiv
			loc:       kyiv,
			notify:    "08:00",
			want:      false,
		},
		{
			name:      "debug fires any time past the configured time",
			serverNow: time.Date(2025, 6, 10, 17, 45, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			debug:     true,
			want:      true,
		},
		{
			name:      "debug still waits for the configured time",
			serverNow: time.Date(2025, 6, 10, 7, 59, 0, 0, time.UTC),
			loc:       time.UTC,
			notify:    "08:00",
			debug:     true,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InWindow(tt.serverNow, tt.loc, mustDayTime(t, tt.notify), tt.debug)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("InWindow mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Each notification time must be eligible in exactly one cycle when cycles
// run every 5 minutes on wall-clock boundaries.
func TestInWindowSingleCycle(t *testing.T) {
	notify := mustDayTime(t, "08:03")

	eligible := 0
	for minute := 0; minute < 60; minute += 5 {
		serverNow := time.Date(2025, 6, 10, 8, minute, 0, 0, time.UTC)
		if InWindow(serverNow, time.UTC, notify, false) {
			eligible++
		}
	}
	if diff := cmp.Diff(1, eligible); diff != "" {
		t.Errorf("eligible cycle count mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLocation(t *testing.T) {
	def := mustLocation(t, "Europe/Kyiv")

	tests := []struct {
		name string
		tz   string
		want string
	}{
		{name: "valid timezone", tz: "America/New_York", want: "America/New_York"},
		{name: "empty falls back to default", tz: "", want: "Europe/Kyiv"},
		{name: "garbage falls back to default", tz: "Not/AZone", want: "Europe/Kyiv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLocation(tt.tz, def)
			if diff := cmp.Diff(tt.want, got.String()); diff != "" {
				t.Errorf("ResolveLocation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLocalDate(t *testing.T) {
	tokyo := mustLocation(t, "Asia/Tokyo")

	// 23:30 UTC on June 10 is already June 11 in Tokyo.
	serverNow := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	got := LocalDate(serverNow, tokyo)
	want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LocalDate mismatch (-want +got):\n%s", diff)
	}
}
