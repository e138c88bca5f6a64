// Package window decides whether a user's local time falls inside their
// 5-minute delivery window.
package window

import (
	"time"

	"morning_bot/internal/model"
)

// WindowMinutes is the width of a delivery window. It matches the cadence
// the dispatch cycle runs on.
const WindowMinutes = 5

// ResolveLocation loads an IANA timezone name, falling back to def when the
// name is empty or invalid. A bad timezone on one user must never fail the
// whole cycle.
func ResolveLocation(name string, def *time.Location) *time.Location {
	if name == "" {
		return def
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return def
	}
	return loc
}

// InWindow reports whether notify falls inside the current 5-minute-aligned
// window of serverNow converted to loc.
//
// The window is [floor(localMinute/5)*5, localMinute] within the current
// hour, inclusive on both ends, so a notification time lands in exactly one
// cycle when cycles run every 5 minutes on wall-clock boundaries.
//
// In debug mode the check loosens to notify <= local time, so a test user
// fires on every cycle once past their configured time.
func InWindow(serverNow time.Time, loc *time.Location, notify model.DayTime, debug bool) bool {
	local := serverNow.In(loc)
	localMinute := model.DayTime(local.Hour()*60 + local.Minute())

	if debug {
		return notify <= localMinute
	}

	windowStart := (localMinute / WindowMinutes) * WindowMinutes
	return windowStart <= notify && notify <= localMinute
}

// LocalDate returns serverNow's calendar date in loc with the time part
// zeroed, for inspiration lookup.
func LocalDate(serverNow time.Time, loc *time.Location) time.Time {
	local := serverNow.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
