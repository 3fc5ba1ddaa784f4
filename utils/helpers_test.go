package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hello, World!", want: "Hello_World"},
		{in: "a/b\\c:d", want: "a_b_c_d"},
		{in: "Ой-ой mp3", want: "mp3"},
		{in: "!!!", want: "media"},
		{in: "", want: "media"},
		{in: strings.Repeat("x", 150), want: strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("привет мир", 6); got != "привет" {
		t.Fatalf("Truncate runes = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
	if got := TruncateBytes("дом", 3); got != "д" {
		t.Fatalf("TruncateBytes = %q, want rune boundary", got)
	}
	if got := TailBytes("дом", 3); got != "м" {
		t.Fatalf("TailBytes = %q, want rune boundary", got)
	}
	if got := TailBytes("abc", 5); got != "abc" {
		t.Fatalf("TailBytes short = %q", got)
	}
}

func TestRetryWithBackoffStopsOnSuccess(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("temporary")
		}
		return nil
	}, 3, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryWithBackoffHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return errors.New("fail") }, 3, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
