package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseOutputPrefersLastDestination(t *testing.T) {
	out := "[youtube] abc: Downloading webpage\n" +
		"[download] Destination: /d/song_1.f137.mp4\n" +
		"[download] 100% of 10.00MiB\n" +
		"[download] Destination: /d/song_1.f140.m4a\n" +
		"[Merger] Merging formats into \"/d/song_1.mp4\"\n" +
		"Deleting original file /d/song_1.f137.mp4\n"

	got, ok := ParseOutput(out).(OutputFound)
	if !ok {
		t.Fatal("expected OutputFound")
	}
	if got.Path != "/d/song_1.mp4" {
		t.Fatalf("path = %q, want merged file", got.Path)
	}
}

func TestParseOutputAlreadyDownloadedWins(t *testing.T) {
	out := "[download] /d/a.mp3 has already been downloaded\n" +
		"[ExtractAudio] Destination: /d/other.mp3\n"

	got, ok := ParseOutput(out).(OutputFound)
	if !ok || got.Path != "/d/a.mp3" || !got.AlreadyDownloaded {
		t.Fatalf("got %#v", got)
	}
}

func TestParseOutputStripsColors(t *testing.T) {
	out := "\x1b[0;32m[download]\x1b[0m Destination: /d/x.webm\r\n"
	got, ok := ParseOutput(out).(OutputFound)
	if !ok || got.Path != "/d/x.webm" {
		t.Fatalf("got %#v", got)
	}
}

func TestParseOutputNotFound(t *testing.T) {
	if _, ok := ParseOutput("ERROR: unable to download\n").(OutputNotFound); !ok {
		t.Fatal("expected OutputNotFound")
	}
}

func TestRecoverFileProbesExtensions(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "clip_1")
	writeFile(t, base+".mp4", 10)

	got, err := RecoverFile("nothing useful", base, KindVideo, "", dir)
	if err != nil {
		t.Fatalf("RecoverFile: %v", err)
	}
	if got != base+".mp4" {
		t.Fatalf("path = %q", got)
	}
}

func TestRecoverFileResolvesRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rel.mp3"), 5)

	got, err := RecoverFile("[ExtractAudio] Destination: rel.mp3\n", "", KindAudio, "mp3", dir)
	if err != nil {
		t.Fatalf("RecoverFile: %v", err)
	}
	if got != filepath.Join(dir, "rel.mp3") {
		t.Fatalf("path = %q", got)
	}
}

func TestRecoverFileRejectsEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.mp3")
	writeFile(t, empty, 0)

	_, err := RecoverFile("[ExtractAudio] Destination: "+empty+"\n", filepath.Join(dir, "nope"), KindAudio, "mp3", dir)
	if !errors.Is(err, ErrNoOutputFile) {
		t.Fatalf("err = %v, want ErrNoOutputFile", err)
	}
}

func TestRecoverFileAudioFallsBackToAlternate(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "track")
	writeFile(t, base+".m4a", 3)

	got, err := RecoverFile("", base, KindAudio, "mp3", dir)
	if err != nil || got != base+".m4a" {
		t.Fatalf("got %q, %v", got, err)
	}
}
