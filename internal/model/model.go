// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"time"
)

// Language codes supported for translations and UI texts.
const (
	LangUkrainian = "uk"
	LangRussian   = "ru"
	LangEnglish   = "en"
)

// Book is a source of daily inspirations.
type Book struct {
	ID        int64
	Title     string
	Language  string
	IsActive  bool
	SourceURL string
	CreatedAt time.Time
}

// Inspiration is a dated excerpt belonging to exactly one book.
// At most one exists per (book, date); written only by the importer.
type Inspiration struct {
	ID            int64
	BookID        int64
	Date          time.Time // calendar date, time part zeroed
	OriginalText  string
	TranslationUK string
	TranslationRU string
	TranslationEN string
	HTMLContent   string
	CreatedAt     time.Time
}

// Translation returns the plain text for a language code,
// or an empty string if that translation is not populated.
func (i *Inspiration) Translation(lang string) string {
	switch lang {
	case LangUkrainian:
		return i.TranslationUK
	case LangRussian:
		return i.TranslationRU
	case LangEnglish:
		return i.TranslationEN
	}
	return ""
}

// User is a registered Telegram account. The ID is the Telegram chat ID.
type User struct {
	ID        int64
	IsActive  bool
	CreatedAt time.Time
}

// UserSettings holds one user's delivery preferences.
// BookID is nil until onboarding completes.
type UserSettings struct {
	UserID           int64
	BookID           *int64
	Language         string
	Timezone         string // IANA name, empty means "use default"
	NotificationTime DayTime
	IsActive         bool
	UpdatedAt        time.Time
}

// DispatchTarget is a user joined with its settings, as returned by the
// dispatch query: user active, settings active, book selected.
type DispatchTarget struct {
	UserID           int64
	BookID           int64
	Language         string
	Timezone         string
	NotificationTime DayTime
}

// SentRecord proves a (user, inspiration, language) triple was delivered.
// Created exactly once per successful send, never updated or deleted.
type SentRecord struct {
	UserID        int64
	InspirationID int64
	Language      string
	SentAt        time.Time
}

// DayTime is a local time of day in minutes since midnight.
type DayTime int

// ParseDayTime parses an "HH:MM" string.
func ParseDayTime(s string) (DayTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return DayTime(h*60 + m), nil
}

// String formats the time as "HH:MM".
func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(d)/60, int(d)%60)
}
