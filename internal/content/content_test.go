package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"morning_bot/internal/model"
)

func TestRichToPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "keeps telegram tags",
			in:   "<p>Morning <b>light</b> and <i>peace</i>.</p>",
			want: "Morning <b>light</b> and <i>peace</i>.",
		},
		{
			name: "normalizes strong and em",
			in:   "<strong>Bold</strong> and <em>slanted</em>",
			want: "<b>Bold</b> and <i>slanted</i>",
		},
		{
			name: "unwraps unsupported tags",
			in:   `<span class="x">plain</span> <font>text</font>`,
			want: "plain text",
		},
		{
			name: "paragraphs become blank lines",
			in:   "<p>First.</p><p>Second.</p>",
			want: "First.\n\nSecond.",
		},
		{
			name: "br becomes newline",
			in:   "line one<br>line two",
			want: "line one\nline two",
		},
		{
			name: "escapes special characters in text",
			in:   "<p>a &lt; b &amp; c</p>",
			want: "a &lt; b &amp; c",
		},
		{
			name: "markup only yields empty",
			in:   "<p><img src=\"x.png\"/></p>",
			want: "",
		},
		{
			name: "empty input yields empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RichToPlain(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RichToPlain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "removes tags", in: "<b>Title</b>\n\nBody <i>text</i>", want: "Title\n\nBody text"},
		{name: "no tags untouched", in: "just text", want: "just text"},
		{name: "broken markup survives", in: "a <b unclosed text", want: "a <b unclosed text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripTags(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("StripTags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveDelivery(t *testing.T) {
	tests := []struct {
		name string
		insp model.Inspiration
		lang string
		want string
	}{
		{
			name: "rich content wins regardless of language",
			insp: model.Inspiration{
				HTMLContent:   "<p>Ранкове <b>слово</b></p>",
				TranslationEN: "Morning word",
				OriginalText:  "original",
			},
			lang: model.LangEnglish,
			want: "Ранкове <b>слово</b>",
		},
		{
			name: "empty rich conversion falls to translation",
			insp: model.Inspiration{
				HTMLContent:   "<p><img src=\"x\"/></p>",
				TranslationEN: "Morning word",
				OriginalText:  "original",
			},
			lang: model.LangEnglish,
			want: "Morning word",
		},
		{
			name: "missing translation falls to original",
			insp: model.Inspiration{
				TranslationUK: "Слово",
				OriginalText:  "original text",
			},
			lang: model.LangEnglish,
			want: "original text",
		},
		{
			name: "everything empty",
			insp: model.Inspiration{},
			lang: model.LangEnglish,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDelivery(&tt.insp, tt.lang)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveDelivery mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveBrowse(t *testing.T) {
	insp := model.Inspiration{
		HTMLContent:   "<p><b>Formatted</b> reading</p>",
		TranslationEN: "english text",
		OriginalText:  "original",
	}

	tests := []struct {
		name     string
		bookLang string
		userLang string
		want     string
	}{
		{
			name:     "rich used when languages match",
			bookLang: model.LangEnglish,
			userLang: model.LangEnglish,
			want:     "<b>Formatted</b> reading",
		},
		{
			name:     "language mismatch skips rich content",
			bookLang: model.LangUkrainian,
			userLang: model.LangEnglish,
			want:     "english text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBrowse(&insp, tt.bookLang, tt.userLang)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveBrowse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextFallsBackToUkrainian(t *testing.T) {
	got := Text("de", "welcome")
	want := Text(model.LangUkrainian, "welcome")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Text fallback mismatch (-want +got):\n%s", diff)
	}
}
