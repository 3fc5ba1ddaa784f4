package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tezBot/config"
	"tezBot/utils"

	"github.com/lrstanley/go-ytdlp"
)

// fakeExtractor отвечает заранее заданными функциями и запоминает вызовы
type fakeExtractor struct {
	mu      sync.Mutex
	calls   []ExtractOptions
	targets []string
	respond func(target string, opts ExtractOptions) (string, error)
}

func (f *fakeExtractor) Run(_ context.Context, target string, opts ExtractOptions) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.targets = append(f.targets, target)
	f.mu.Unlock()
	return f.respond(target, opts)
}

func (f *fakeExtractor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func personaName(o ExtractOptions) string {
	if o.Persona == nil {
		return "simple"
	}
	return o.Persona.Name
}

func TestDownloadPersonaOrder(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "song_1.mp3")

	fx := &fakeExtractor{respond: func(_ string, o ExtractOptions) (string, error) {
		switch personaName(o) {
		case "android":
			return "ERROR: Sign in to confirm", errors.New("exit status 1")
		case "ios":
			writeFile(t, target, 16)
			return "[ExtractAudio] Destination: " + target + "\n", nil
		}
		t.Fatalf("persona %s must not be tried", personaName(o))
		return "", nil
	}}

	svc := NewMediaService(fx, DefaultPersonas(), dir)
	got, err := svc.Download(context.Background(), DownloadRequest{
		URL:            "https://youtu.be/abc",
		Kind:           KindAudio,
		OutputTemplate: filepath.Join(dir, "song_1.%(ext)s"),
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got != target {
		t.Fatalf("path = %q", got)
	}
	if fx.count() != 2 {
		t.Fatalf("attempts = %d, want 2", fx.count())
	}
	if o := fx.calls[0]; !o.ExtractAudio || o.AudioFormat != "mp3" || !o.EmbedMetadata || !o.EmbedThumbnail {
		t.Fatalf("audio options not set: %+v", o)
	}
}

func TestDownloadAdvancesWhenOutputUnparseable(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "clip_2")

	fx := &fakeExtractor{respond: func(_ string, o ExtractOptions) (string, error) {
		if personaName(o) == "android" {
			return "[youtube] done, no file\n", nil
		}
		writeFile(t, base+".mp4", 8)
		return "", nil
	}}

	svc := NewMediaService(fx, DefaultPersonas(), dir)
	got, err := svc.Download(context.Background(), DownloadRequest{
		URL: "https://youtu.be/abc", Kind: KindVideo, Height: 720, OutputTemplate: base + ".%(ext)s",
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got != base+".mp4" || fx.count() != 2 {
		t.Fatalf("got %q after %d attempts", got, fx.count())
	}
	if !strings.Contains(fx.calls[0].Format, "height<=720") {
		t.Fatalf("format = %q", fx.calls[0].Format)
	}
}

func TestDownloadFinalSimpleAttempt(t *testing.T) {
	dir := t.TempDir()
	last := errors.New("simple failed too")

	fx := &fakeExtractor{respond: func(_ string, o ExtractOptions) (string, error) {
		if personaName(o) == "simple" {
			if !o.Minimal {
				t.Error("final attempt must be minimal")
			}
			return "", last
		}
		return "", errors.New("persona failed")
	}}

	svc := NewMediaService(fx, DefaultPersonas(), dir)
	_, err := svc.Download(context.Background(), DownloadRequest{
		URL: "https://youtu.be/abc", Kind: KindVideo, OutputTemplate: filepath.Join(dir, "x.%(ext)s"),
	})
	if !errors.Is(err, last) {
		t.Fatalf("err = %v, want last attempt error", err)
	}
	var all *utils.AllFailedError
	if !errors.As(err, &all) || len(all.Attempts) != 4 {
		t.Fatalf("expected 4 attempts, got %v", err)
	}
}

func TestDownloadRejectsUnknownKind(t *testing.T) {
	svc := NewMediaService(&fakeExtractor{}, nil, t.TempDir())
	_, err := svc.Download(context.Background(), DownloadRequest{Kind: "gif"})
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("err = %v", err)
	}
}

func TestVideoFormatSelector(t *testing.T) {
	if got := VideoFormatSelector(0); got != "best[ext=mp4]/best" {
		t.Fatalf("best selector = %q", got)
	}
	want := "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/best[height<=480][ext=mp4]/best[height<=480]"
	if got := VideoFormatSelector(480); got != want {
		t.Fatalf("selector = %q", got)
	}
}

// commandArgs флаги, которые билдер передаст yt-dlp
func commandArgs(cmd *ytdlp.Command) string {
	var args []string
	for _, f := range cmd.GetFlagConfig().ToFlags() {
		args = append(args, f.Raw()...)
	}
	return strings.Join(args, " ")
}

func TestYtDlpCommandFlags(t *testing.T) {
	r := NewYtDlpRunner(config.YtDlpConfig{
		Path:                "/opt/yt-dlp",
		ForceIPv4:           true,
		ConcurrentFragments: 16,
		ChunkSize:           "10M",
		Cookies:             "/c.txt",
	}, &config.ProxyConfig{UseProxy: true, ProxyURL: "socks5h://127.0.0.1:1080"})

	p := DefaultPersonas()[0]
	args := commandArgs(r.command(ExtractOptions{
		Persona: &p, ExtractAudio: true, AudioFormat: "mp3", EmbedMetadata: true, EmbedThumbnail: true,
	}))
	for _, want := range []string{
		"--extractor-args youtube:player_client=android", "--user-agent", "--extract-audio",
		"--audio-format mp3", "--embed-metadata", "--embed-thumbnail", "--force-ipv4",
		"--concurrent-fragments 16", "--http-chunk-size 10M", "--cookies /c.txt",
		"--proxy socks5h://127.0.0.1:1080", "--no-colors", "--no-check-certificates", "--no-playlist",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	minimal := commandArgs(r.command(ExtractOptions{Minimal: true}))
	for _, hint := range []string{"--force-ipv4", "--cookies", "--concurrent-fragments", "--extractor-args"} {
		if strings.Contains(minimal, hint) {
			t.Errorf("minimal args carry %q: %q", hint, minimal)
		}
	}

	ex := r.command(ExtractOptions{DumpJSON: true, SkipDownload: true}).BuildCommand(context.Background(), "https://youtu.be/abc")
	if ex.Path != "/opt/yt-dlp" || ex.Args[len(ex.Args)-1] != "https://youtu.be/abc" {
		t.Fatalf("command = %s %v", ex.Path, ex.Args)
	}
	if joined := strings.Join(ex.Args, " "); !strings.Contains(joined, "--dump-single-json") || !strings.Contains(joined, "--skip-download") {
		t.Fatalf("json flags missing: %s", joined)
	}
}

func TestYtDlpCommandWithoutProxy(t *testing.T) {
	r := NewYtDlpRunner(config.YtDlpConfig{}, nil)
	if args := commandArgs(r.command(ExtractOptions{FlatPlaylist: true})); strings.Contains(args, "--proxy") || !strings.Contains(args, "--flat-playlist") {
		t.Fatalf("args = %q", args)
	}
}

func TestResolvePersonasSkipsUnknown(t *testing.T) {
	got := ResolvePersonas([]string{"web", "nokia", "WEB", "ios"})
	if len(got) != 2 || got[0].Name != "web" || got[1].Name != "ios" {
		t.Fatalf("got %+v", got)
	}
}

func TestTailKeepsRunesWhole(t *testing.T) {
	if got := tail("  ошибка\n", 5); got != "...ка" {
		t.Fatalf("tail = %q", got)
	}
	if got := tail("ok", 5); got != "ok" {
		t.Fatalf("tail short = %q", got)
	}
}
