package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDayTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    DayTime
		wantErr bool
	}{
		{name: "morning", in: "08:00", want: 480},
		{name: "midnight", in: "00:00", want: 0},
		{name: "end of day", in: "23:59", want: 23*60 + 59},
		{name: "single digit hour", in: "7:30", want: 450},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "minute out of range", in: "10:60", wantErr: true},
		{name: "garbage", in: "soon", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDayTime mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDayTimeString(t *testing.T) {
	tests := []struct {
		in   DayTime
		want string
	}{
		{in: 0, want: "00:00"},
		{in: 480, want: "08:00"},
		{in: 23*60 + 59, want: "23:59"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("DayTime(%d).String() = %q, want %q", int(tt.in), got, tt.want)
		}
	}
}

func TestInspirationTranslation(t *testing.T) {
	insp := Inspiration{TranslationUK: "укр", TranslationRU: "рус", TranslationEN: "eng"}

	tests := []struct {
		lang string
		want string
	}{
		{lang: LangUkrainian, want: "укр"},
		{lang: LangRussian, want: "рус"},
		{lang: LangEnglish, want: "eng"},
		{lang: "de", want: ""},
	}

	for _, tt := range tests {
		if got := insp.Translation(tt.lang); got != tt.want {
			t.Errorf("Translation(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
