package services

import "testing"

func TestCheckTextWordBoundaries(t *testing.T) {
	m := NewModerator(nil, 3)
	tests := []struct {
		text string
		safe bool
	}{
		{"Hello world", true},
		{"aldamadim", true},
		{"am", false},
		{"bu am, kerak", false},
		{"kottalar uchun qo'shiq", false},
		{"this is PORN content", false},
		{"pornography", true},
		{"Секс", false},
		{"video 18+", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := m.CheckText(tt.text); got.Safe != tt.safe {
			t.Errorf("CheckText(%q).Safe = %v, want %v (keyword %q)", tt.text, got.Safe, tt.safe, got.Keyword)
		}
	}
	if v := m.CheckText("bu seks haqida"); v.Keyword != "seks" || v.Reason != ReasonKeyword {
		t.Errorf("verdict = %+v", v)
	}
}

func TestCheckMetadata(t *testing.T) {
	m := NewModerator(nil, 3)

	if v := m.CheckMetadata(&MediaInfo{Title: "Funny Cats", Tags: []string{"cats", "funny"}}); !v.Safe {
		t.Errorf("safe metadata flagged: %+v", v)
	}
	if v := m.CheckMetadata(&MediaInfo{Title: "Movie", AgeLimit: 18}); v.Safe || v.Reason != ReasonAgeLimit {
		t.Errorf("age limit verdict = %+v", v)
	}
	if v := m.CheckMetadata(&MediaInfo{Title: "Some Video", Tags: []string{"xxx", "movies"}}); v.Safe || v.Keyword != "xxx" {
		t.Errorf("tag verdict = %+v", v)
	}
	if v := m.CheckMetadata(&MediaInfo{Title: "Sam aldamadim"}); !v.Safe {
		t.Errorf("embedded keyword flagged in title: %+v", v)
	}
	if v := m.CheckMetadata(nil); !v.Safe {
		t.Error("nil metadata must be safe")
	}
}

func TestStrikeThresholdAndReset(t *testing.T) {
	m := NewModerator(nil, 3)
	const user = 123456789

	m.AddStrike(user)
	rec := m.AddStrike(user)
	if rec.Count != 2 || rec.Blocked || m.IsBlocked(user) {
		t.Fatalf("after 2 strikes: %+v", rec)
	}
	rec = m.AddStrike(user)
	if rec.Count != 3 || !rec.Blocked || !m.IsBlocked(user) {
		t.Fatalf("after 3 strikes: %+v", rec)
	}

	m.Reset(user)
	if m.IsBlocked(user) || m.Strikes(user).Count != 0 {
		t.Fatalf("reset did not clear: %+v", m.Strikes(user))
	}
}

func TestCustomKeywords(t *testing.T) {
	m := NewModerator([]string{" Spoiler ", ""}, 1)
	if m.CheckText("no spoilers here").Safe != true {
		t.Error("plural must not match whole-word keyword")
	}
	if m.CheckText("big SPOILER!").Safe {
		t.Error("custom keyword missed")
	}
	if !m.AddStrike(1).Blocked {
		t.Error("limit 1 must block on first strike")
	}
}
