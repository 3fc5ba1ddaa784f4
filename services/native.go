package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
)

// YouTubeNative получает метаданные через kkdai/youtube без запуска yt-dlp
type YouTubeNative struct {
	client *youtube.Client
}

// NewYouTubeNative создает нативный клиент поверх переданного HTTP клиента
func NewYouTubeNative(httpClient *http.Client) *YouTubeNative {
	return &YouTubeNative{client: &youtube.Client{HTTPClient: httpClient}}
}

// Info реализует NativeInfoFetcher. Работает только для ссылок YouTube.
func (y *YouTubeNative) Info(ctx context.Context, url string) (*MediaInfo, error) {
	if !IsYouTubeURL(url) {
		return nil, errors.New("нативный клиент поддерживает только YouTube")
	}
	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, err
	}

	info := &MediaInfo{
		ID:          video.ID,
		Title:       video.Title,
		Uploader:    video.Author,
		Description: video.Description,
		URL:         WatchURL(video.ID),
		Duration:    video.Duration,
		Views:       int64(video.Views),
	}
	var maxWidth uint
	for _, th := range video.Thumbnails {
		if th.Width >= maxWidth {
			maxWidth = th.Width
			info.Thumbnail = th.URL
		}
	}
	return info, nil
}

// YTSearch поиск через ppalone/ytsearch, запасной вариант для yt-dlp
type YTSearch struct {
	client *ytsearch.Client
}

// NewYTSearch создает поисковый клиент
func NewYTSearch(httpClient *http.Client) *YTSearch {
	return &YTSearch{client: ytsearch.NewClient(httpClient)}
}

// Search реализует NativeSearcher
func (s *YTSearch) Search(ctx context.Context, query string, limit int) ([]SearchEntry, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	entries := make([]SearchEntry, 0, limit)
	for _, r := range res.Results {
		if r.VideoID == "" {
			continue
		}
		entries = append(entries, SearchEntry{
			ID:       r.VideoID,
			Title:    r.Title,
			URL:      WatchURL(r.VideoID),
			Uploader: r.Channel,
			Duration: parseColonDuration(r.Duration),
		})
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

// parseColonDuration разбирает "3:20" или "1:05:20"
func parseColonDuration(s string) time.Duration {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
