package services

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
)

// PlatformType представляет тип платформы
type PlatformType string

const (
	PlatformYouTube       PlatformType = "youtube"
	PlatformYouTubeShorts PlatformType = "youtube_shorts"
	PlatformTikTok        PlatformType = "tiktok"
	PlatformInstagram     PlatformType = "instagram"
	PlatformVK            PlatformType = "vkontakte"
	PlatformTwitter       PlatformType = "twitter"
	PlatformFacebook      PlatformType = "facebook"
	PlatformUnknown       PlatformType = "unknown"
)

// PlatformInfo содержит информацию о платформе
type PlatformInfo struct {
	Type        PlatformType
	VideoID     string
	DisplayName string
	Icon        string
	Supported   bool
}

type platformPattern struct {
	platform PlatformType
	re       *regexp.Regexp
}

// PlatformDetector определяет платформу по URL
type PlatformDetector struct {
	patterns []platformPattern
}

var (
	urlInText       = regexp.MustCompile(`https?://[^\s<>"']+`)
	defaultDetector = NewPlatformDetector()
)

// NewPlatformDetector создает новый детектор платформ
func NewPlatformDetector() *PlatformDetector {
	table := []struct {
		platform PlatformType
		patterns []string
	}{
		{PlatformYouTubeShorts, []string{
			`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`,
		}},
		{PlatformYouTube, []string{
			`(?:www\.|m\.|music\.)?youtube\.com/watch\?(?:.*&)?v=([a-zA-Z0-9_-]{11})`,
			`youtube\.com/embed/([a-zA-Z0-9_-]{11})`,
			`youtube\.com/v/([a-zA-Z0-9_-]{11})`,
			`youtube\.com/live/([a-zA-Z0-9_-]{11})`,
			`youtu\.be/([a-zA-Z0-9_-]{11})`,
		}},
		{PlatformTikTok, []string{
			`tiktok\.com/@[^/]+/video/(\d+)`,
			`vm\.tiktok\.com/([a-zA-Z0-9]+)`,
			`tiktok\.com/t/([a-zA-Z0-9]+)`,
		}},
		{PlatformInstagram, []string{
			`instagram\.com/p/([a-zA-Z0-9_-]+)`,
			`instagram\.com/reels?/([a-zA-Z0-9_-]+)`,
			`instagram\.com/tv/([a-zA-Z0-9_-]+)`,
		}},
		{PlatformVK, []string{
			`vk\.com/video(-?\d+_\d+)`,
			`vk\.com/videos(-?\d+_\d+)`,
			`vkvideo\.ru/video(-?\d+_\d+)`,
		}},
		{PlatformTwitter, []string{
			`twitter\.com/\w+/status/(\d+)`,
			`x\.com/\w+/status/(\d+)`,
		}},
		{PlatformFacebook, []string{
			`facebook\.com/\w+/videos/(\d+)`,
			`facebook\.com/reel/(\d+)`,
			`fb\.watch/([a-zA-Z0-9_-]+)`,
		}},
	}

	pd := &PlatformDetector{}
	for _, entry := range table {
		for _, p := range entry.patterns {
			pd.patterns = append(pd.patterns, platformPattern{platform: entry.platform, re: regexp.MustCompile(p)})
		}
	}
	return pd
}

// DetectPlatform определяет платформу по URL
func (pd *PlatformDetector) DetectPlatform(rawURL string) *PlatformInfo {
	rawURL = strings.TrimSpace(rawURL)

	for _, p := range pd.patterns {
		if matches := p.re.FindStringSubmatch(rawURL); len(matches) > 1 {
			return &PlatformInfo{
				Type:        p.platform,
				VideoID:     matches[1],
				DisplayName: displayNames[p.platform],
				Icon:        icons[p.platform],
				Supported:   p.platform != PlatformUnknown,
			}
		}
	}

	return &PlatformInfo{
		Type:        PlatformUnknown,
		DisplayName: displayNames[PlatformUnknown],
		Icon:        icons[PlatformUnknown],
	}
}

var displayNames = map[PlatformType]string{
	PlatformYouTube:       "YouTube",
	PlatformYouTubeShorts: "YouTube Shorts",
	PlatformTikTok:        "TikTok",
	PlatformInstagram:     "Instagram",
	PlatformVK:            "VKontakte",
	PlatformTwitter:       "Twitter/X",
	PlatformFacebook:      "Facebook",
	PlatformUnknown:       "Неизвестная платформа",
}

var icons = map[PlatformType]string{
	PlatformYouTube:       "🎬",
	PlatformYouTubeShorts: "🎬",
	PlatformTikTok:        "🎵",
	PlatformInstagram:     "📸",
	PlatformVK:            "🔵",
	PlatformTwitter:       "🐦",
	PlatformFacebook:      "📘",
	PlatformUnknown:       "❓",
}

// IsValidURL проверяет, является ли URL валидным для любой поддерживаемой платформы
func (pd *PlatformDetector) IsValidURL(rawURL string) bool {
	info := pd.DetectPlatform(rawURL)
	return info.Supported && info.VideoID != ""
}

// ExtractURL находит в тексте первую http(s) ссылку на поддерживаемую платформу
func (pd *PlatformDetector) ExtractURL(text string) (string, bool) {
	for _, candidate := range urlInText.FindAllString(text, -1) {
		candidate = strings.TrimRight(candidate, ".,;!?)")
		if u, err := url.Parse(candidate); err != nil || u.Host == "" {
			continue
		}
		if pd.IsValidURL(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// FallbackTitle заголовок, когда настоящий получить не удалось
func (pd *PlatformDetector) FallbackTitle(rawURL string) string {
	info := pd.DetectPlatform(rawURL)
	switch info.Type {
	case PlatformUnknown:
		return "Video"
	case PlatformYouTubeShorts:
		return fmt.Sprintf("YouTube Short %s", info.VideoID)
	default:
		return fmt.Sprintf("%s Video %s", info.DisplayName, info.VideoID)
	}
}

// LogPlatformInfo логирует информацию о платформе
func (pd *PlatformDetector) LogPlatformInfo(info *PlatformInfo, rawURL string) {
	log.Printf("🔍 Обнаружена платформа: %s %s (id %s) %s", info.Icon, info.DisplayName, info.VideoID, rawURL)
}

// IsYouTubeURL ссылка на YouTube (обычное видео или shorts)
func IsYouTubeURL(rawURL string) bool {
	t := defaultDetector.DetectPlatform(rawURL).Type
	return t == PlatformYouTube || t == PlatformYouTubeShorts
}
