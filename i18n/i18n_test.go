package i18n

import (
	"strings"
	"testing"
)

func TestTextFallbacks(t *testing.T) {
	tests := []struct {
		name, lang, key, want string
	}{
		{"own language", "en", "menu_help", "❓ Help"},
		{"missing key falls back to default", "uz_cyrl", "expired", texts["uz"]["expired"]},
		{"unknown language", "de", "menu_help", texts["uz"]["menu_help"]},
		{"unknown key", "en", "no_such_key", "no_such_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.lang, tt.key); got != tt.want {
				t.Errorf("Text(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	got := Format("en", "warning_strike", "count", "2", "limit", "3")
	if !strings.Contains(got, "(2/3)") {
		t.Fatalf("Format = %q", got)
	}
	if got := Format("en", "done"); got != Text("en", "done") {
		t.Fatalf("Format without pairs = %q", got)
	}
}

func TestMatchLabelAcrossLanguages(t *testing.T) {
	if !MatchLabel("🎬 Скачать видео", "menu_video") {
		t.Error("russian label must match menu_video")
	}
	if !MatchLabel("  🏠 Home ", "menu_back") {
		t.Error("surrounding spaces must be ignored")
	}
	if MatchLabel("🎬 Скачать видео", "menu_audio") {
		t.Error("label must not match another key")
	}
	if MatchLabel("", "menu_back") {
		t.Error("empty text must not match")
	}
}

func TestEveryLanguageHasMenuLabels(t *testing.T) {
	for _, lang := range Languages() {
		for _, key := range []string{"menu_music", "menu_video", "menu_audio", "menu_help", "menu_back", "menu_lang"} {
			if _, ok := texts[lang][key]; !ok {
				t.Errorf("%s: missing %s", lang, key)
			}
		}
		if LanguageName(lang) == lang {
			t.Errorf("%s: no display name", lang)
		}
	}
}
