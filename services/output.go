package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoOutputFile означает, что ни вывод yt-dlp, ни проверка ожидаемых путей не дали файла
var ErrNoOutputFile = errors.New("не найден скачанный файл")

// OutputPath результат разбора вывода: путь найден или нет
type OutputPath interface {
	isOutputPath()
}

// OutputFound путь, который yt-dlp сообщил в выводе
type OutputFound struct {
	Path string
	// AlreadyDownloaded файл уже лежал на диске, yt-dlp ничего не качал
	AlreadyDownloaded bool
}

// OutputNotFound в выводе нет строки с путём
type OutputNotFound struct{}

func (OutputFound) isOutputPath()    {}
func (OutputNotFound) isOutputPath() {}

var (
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

	alreadyDownloadedPattern = regexp.MustCompile(`^\[download\]\s+(.+?)\s+has already been downloaded`)

	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\[download\]\s+Destination:\s+(.+)$`),
		regexp.MustCompile(`^\[Merger\]\s+Merging formats into\s+"(.+)"$`),
		regexp.MustCompile(`^\[ExtractAudio\]\s+Destination:\s+(.+)$`),
		regexp.MustCompile(`^\[VideoConvertor\]\s+Converting video from \S+ to \S+; Destination:\s+(.+)$`),
		regexp.MustCompile(`^\[FixupM3u8\]\s+Fixing MPEG-TS in MP4 container of "(.+)"$`),
	}
)

// StripANSI удаляет управляющие последовательности цвета терминала
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ParseOutput ищет в выводе итоговый путь файла.
// Строка "has already been downloaded" важнее остальных, иначе берётся последняя
// строка Destination/Merging, так как постобработка сообщает путь позже загрузки.
func ParseOutput(output string) OutputPath {
	var last string
	for _, line := range strings.Split(StripANSI(output), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if m := alreadyDownloadedPattern.FindStringSubmatch(line); m != nil {
			return OutputFound{Path: strings.TrimSpace(m[1]), AlreadyDownloaded: true}
		}
		for _, re := range destinationPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				last = strings.TrimSpace(m[1])
				break
			}
		}
	}
	if last == "" {
		return OutputNotFound{}
	}
	return OutputFound{Path: last}
}

// probeExtensions возвращает расширения для проверки по порядку
func probeExtensions(kind MediaKind, audioFormat string) []string {
	if kind == KindAudio {
		primary := audioFormat
		if primary == "" {
			primary = "mp3"
		}
		if primary == "m4a" {
			return []string{"m4a", "mp3"}
		}
		return []string{primary, "m4a"}
	}
	return []string{"mp4", "mkv", "webm"}
}

// RecoverFile превращает вывод yt-dlp в путь к существующему непустому файлу.
// base это шаблон вывода без ".%(ext)s", workDir каталог, где запускался процесс.
func RecoverFile(output, base string, kind MediaKind, audioFormat, workDir string) (string, error) {
	if found, ok := ParseOutput(output).(OutputFound); ok {
		path := found.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		if usableFile(path) {
			return path, nil
		}
	}

	if base != "" {
		if !filepath.IsAbs(base) {
			base = filepath.Join(workDir, base)
		}
		for _, ext := range probeExtensions(kind, audioFormat) {
			candidate := base + "." + ext
			if usableFile(candidate) {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%w (шаблон %s)", ErrNoOutputFile, base)
}

func usableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
