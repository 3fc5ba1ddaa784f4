package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tezBot/utils"
)

// MediaKind тип выдачи: видео или аудио
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// ErrUnsupportedKind неизвестный тип выдачи
var ErrUnsupportedKind = errors.New("неподдерживаемый тип медиа")

// DownloadRequest параметры одной загрузки
type DownloadRequest struct {
	URL            string
	Kind           MediaKind
	Height         int    // 0 = лучшее доступное
	AudioFormat    string // mp3 по умолчанию
	OutputTemplate string // путь с плейсхолдером .%(ext)s
}

// MediaService скачивает медиа, перебирая персоны клиентов
type MediaService struct {
	extractor   Extractor
	personas    []Persona
	downloadDir string
	workDir     string
}

// NewMediaService создает сервис загрузки
func NewMediaService(extractor Extractor, personas []Persona, downloadDir string) *MediaService {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &MediaService{
		extractor:   extractor,
		personas:    personas,
		downloadDir: downloadDir,
		workDir:     wd,
	}
}

// DownloadDir каталог, куда пишутся файлы
func (m *MediaService) DownloadDir() string {
	return m.downloadDir
}

// VideoFormatSelector селектор формата с ограничением высоты
func VideoFormatSelector(height int) string {
	if height <= 0 {
		return "best[ext=mp4]/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d][ext=mp4]+bestaudio[ext=m4a]/best[height<=%d][ext=mp4]/best[height<=%d]", height, height, height)
}

func (m *MediaService) options(req DownloadRequest) (ExtractOptions, error) {
	opts := ExtractOptions{OutputTemplate: req.OutputTemplate}
	switch req.Kind {
	case KindVideo:
		opts.Format = VideoFormatSelector(req.Height)
		opts.MergeFormat = "mp4"
	case KindAudio:
		opts.Format = "bestaudio/best"
		opts.ExtractAudio = true
		opts.AudioFormat = req.AudioFormat
		opts.EmbedMetadata = true
		opts.EmbedThumbnail = true
	default:
		return opts, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind)
	}
	return opts, nil
}

// Download скачивает медиа и возвращает путь к существующему непустому файлу.
// Порядок: персоны по приоритету, затем одна простая попытка без подсказок.
// Таймаута нет: длительность ограничена самим yt-dlp.
func (m *MediaService) Download(ctx context.Context, req DownloadRequest) (string, error) {
	if req.Kind == KindAudio && req.AudioFormat == "" {
		req.AudioFormat = "mp3"
	}
	opts, err := m.options(req)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.downloadDir, 0755); err != nil {
		return "", fmt.Errorf("не удалось создать папку для загрузок: %w", err)
	}

	base := strings.TrimSuffix(req.OutputTemplate, ".%(ext)s")
	attempt := func(name string, o ExtractOptions) utils.Strategy[string] {
		return utils.Strategy[string]{Name: name, Run: func(ctx context.Context) (string, error) {
			log.Printf("🔄 Загрузка %s через %s: %s", req.Kind, name, req.URL)
			output, runErr := m.extractor.Run(ctx, req.URL, o)
			if runErr != nil {
				log.Printf("❌ %s не удался: %s", name, tail(output, 400))
				return "", runErr
			}
			return RecoverFile(output, base, req.Kind, req.AudioFormat, m.workDir)
		}}
	}

	strategies := make([]utils.Strategy[string], 0, len(m.personas)+1)
	for i := range m.personas {
		o := opts
		o.Persona = &m.personas[i]
		strategies = append(strategies, attempt(m.personas[i].Name, o))
	}
	simple := opts
	simple.Minimal = true
	simple.EmbedThumbnail = false
	if req.Kind == KindVideo {
		simple.Format = "best"
		simple.MergeFormat = ""
	}
	strategies = append(strategies, attempt("simple", simple))

	path, err := utils.FirstSuccess(ctx, 0, strategies...)
	if err != nil {
		return "", fmt.Errorf("все стратегии скачивания не удались: %w", err)
	}
	log.Printf("✅ Файл готов: %s", filepath.Base(path))
	return path, nil
}

// tail возвращает хвост вывода для логов
func tail(s string, n int) string {
	s = strings.TrimSpace(StripANSI(s))
	if len(s) <= n {
		return s
	}
	return "..." + utils.TailBytes(s, n)
}
