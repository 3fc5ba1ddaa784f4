package services

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"tezBot/config"

	"github.com/lrstanley/go-ytdlp"
)

// ExtractOptions набор опций одного вызова yt-dlp
type ExtractOptions struct {
	OutputTemplate string   // шаблон пути с %(ext)s
	Format         string   // селектор формата
	Persona        *Persona // nil = без маскировки под клиента
	ExtractAudio   bool
	AudioFormat    string
	MergeFormat    string
	EmbedMetadata  bool
	EmbedThumbnail bool
	DumpJSON       bool
	FlatPlaylist   bool
	Print          string
	SkipDownload   bool
	// Minimal отключает сетевые подсказки (IP, фрагменты, куки) для последней простой попытки
	Minimal bool
}

// Extractor запускает внешний инструмент извлечения и возвращает его текстовый вывод
type Extractor interface {
	Run(ctx context.Context, target string, opts ExtractOptions) (string, error)
}

// YtDlpRunner реализует Extractor поверх yt-dlp
type YtDlpRunner struct {
	path  string
	cfg   config.YtDlpConfig
	proxy *config.ProxyConfig
}

// NewYtDlpRunner создает раннер. Пустой cfg.Path означает поиск yt-dlp в PATH.
func NewYtDlpRunner(cfg config.YtDlpConfig, proxy *config.ProxyConfig) *YtDlpRunner {
	return &YtDlpRunner{path: cfg.Path, cfg: cfg, proxy: proxy}
}

// Run выполняет yt-dlp и возвращает объединённый stdout+stderr
func (r *YtDlpRunner) Run(ctx context.Context, target string, opts ExtractOptions) (string, error) {
	ex := r.command(opts).BuildCommand(ctx, target)

	log.Printf("🚀 Выполняю команду: %s", strings.Join(ex.Args, " "))

	output, err := ex.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("yt-dlp завершился с ошибкой: %w", err)
	}
	return string(output), nil
}

// command собирает вызов yt-dlp через билдер
func (r *YtDlpRunner) command(opts ExtractOptions) *ytdlp.Command {
	cmd := ytdlp.New().
		IgnoreConfig().
		NoWarnings().
		NoColors().
		NoCheckCertificates()

	if r.path != "" {
		cmd.SetExecutable(r.path)
	}
	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.OutputTemplate != "" {
		cmd.Output(opts.OutputTemplate)
	}
	if opts.FlatPlaylist {
		cmd.FlatPlaylist()
	} else {
		cmd.NoPlaylist()
	}
	if opts.Print != "" {
		cmd.Print(opts.Print)
	}
	if proxyURL := r.proxy.YtDlpProxy(); proxyURL != "" {
		cmd.Proxy(proxyURL)
	}
	if opts.Persona != nil {
		opts.Persona.Apply(cmd)
	}

	if opts.ExtractAudio {
		cmd.ExtractAudio()
		if opts.AudioFormat != "" {
			cmd.AudioFormat(opts.AudioFormat).AudioQuality("0")
		}
	}
	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.EmbedMetadata {
		cmd.EmbedMetadata()
	}
	if opts.EmbedThumbnail {
		cmd.EmbedThumbnail()
	}
	if opts.DumpJSON {
		cmd.DumpSingleJSON()
	}
	if opts.SkipDownload {
		cmd.SkipDownload()
	}

	if opts.Minimal {
		return cmd
	}
	if r.cfg.ForceIPv4 {
		cmd.ForceIPv4()
	}
	if r.cfg.ConcurrentFragments > 1 {
		cmd.ConcurrentFragments(r.cfg.ConcurrentFragments)
	}
	if r.cfg.ChunkSize != "" {
		cmd.HTTPChunkSize(r.cfg.ChunkSize)
	}
	if r.cfg.Cookies != "" {
		cmd.Cookies(r.cfg.Cookies)
	}
	return cmd
}

// CheckBinary проверяет наличие yt-dlp в системе
func (r *YtDlpRunner) CheckBinary() error {
	candidates := []string{"yt-dlp", "/usr/local/bin/yt-dlp"}
	if r.path != "" {
		candidates = []string{r.path}
	}
	for _, c := range candidates {
		if p, err := exec.LookPath(c); err == nil {
			log.Printf("✅ yt-dlp найден по пути %s", p)
			if r.path == "" {
				r.path = p
			}
			return nil
		}
	}
	return fmt.Errorf("yt-dlp не найден в системе. Проверьте установку")
}
