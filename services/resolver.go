package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tezBot/utils"
)

// SearchEntry одна позиция поисковой выдачи
type SearchEntry struct {
	ID       string
	Title    string
	URL      string
	Uploader string
	Duration time.Duration
}

// SearchResult выдача поиска
type SearchResult struct {
	Query   string
	Entries []SearchEntry
}

// MediaInfo полные метаданные ролика
type MediaInfo struct {
	ID          string
	Title       string
	Uploader    string
	Description string
	URL         string
	Thumbnail   string
	Duration    time.Duration
	Views       int64
	AgeLimit    int
	Tags        []string
	Categories  []string
}

// NativeSearcher поиск без yt-dlp
type NativeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchEntry, error)
}

// NativeInfoFetcher метаданные без yt-dlp
type NativeInfoFetcher interface {
	Info(ctx context.Context, url string) (*MediaInfo, error)
}

// ResolverConfig таймауты и TTL резолвера
type ResolverConfig struct {
	SearchTimeout  time.Duration
	TitleTimeout   time.Duration
	InfoTimeout    time.Duration
	SearchCacheTTL time.Duration
	TitleCacheTTL  time.Duration
	InfoCacheTTL   time.Duration
}

// DefaultResolverConfig значения по умолчанию
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		SearchTimeout:  15 * time.Second,
		TitleTimeout:   2 * time.Second,
		InfoTimeout:    8 * time.Second,
		SearchCacheTTL: 10 * time.Minute,
		TitleCacheTTL:  time.Hour,
		InfoCacheTTL:   30 * time.Minute,
	}
}

// Resolver поиск, заголовок и метаданные поверх yt-dlp с кэшем
type Resolver struct {
	extractor Extractor
	cache     *ResultCache
	personas  []Persona
	cfg       ResolverConfig
	searcher  NativeSearcher
	native    NativeInfoFetcher
}

// NewResolver создает резолвер. searcher и native могут быть nil.
func NewResolver(extractor Extractor, cache *ResultCache, personas []Persona, cfg ResolverConfig, searcher NativeSearcher, native NativeInfoFetcher) *Resolver {
	if cache == nil {
		cache = NewResultCache()
	}
	return &Resolver{
		extractor: extractor,
		cache:     cache,
		personas:  personas,
		cfg:       cfg,
		searcher:  searcher,
		native:    native,
	}
}

func searchKey(query string, limit int) string {
	return fmt.Sprintf("search|%s|%d", strings.ToLower(strings.Join(strings.Fields(query), " ")), limit)
}

func titleKey(url string) string { return "title|" + strings.TrimSpace(url) }
func infoKey(url string) string  { return "info|" + strings.TrimSpace(url) }

// WatchURL каноничная ссылка на ролик по ID
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Search ищет ролики в плоском режиме (без проверки доступности каждого)
func (r *Resolver) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	key := searchKey(query, limit)
	if v, ok := r.cache.Get(key); ok {
		log.Printf("🔍 Поиск из кэша: %q", query)
		return v.(*SearchResult), nil
	}

	strategies := []utils.Strategy[[]SearchEntry]{{
		Name: "yt-dlp",
		Run: func(ctx context.Context) ([]SearchEntry, error) {
			out, err := r.extractor.Run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query), ExtractOptions{
				FlatPlaylist: true,
				DumpJSON:     true,
				SkipDownload: true,
			})
			if err != nil {
				return nil, err
			}
			return parseSearchJSON(out, limit)
		},
	}}
	if r.searcher != nil {
		strategies = append(strategies, utils.Strategy[[]SearchEntry]{
			Name: "ytsearch",
			Run: func(ctx context.Context) ([]SearchEntry, error) {
				return r.searcher.Search(ctx, query, limit)
			},
		})
	}

	entries, err := utils.FirstSuccess(ctx, r.cfg.SearchTimeout, strategies...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска: %w", err)
	}
	result := &SearchResult{Query: query, Entries: entries}
	r.cache.Set(key, result, r.cfg.SearchCacheTTL)
	// Выбор результата потом обойдётся без запроса заголовка
	for _, e := range entries {
		if e.ID != "" && e.Title != "" {
			r.cache.Set(titleKey(WatchURL(e.ID)), e.Title, r.cfg.TitleCacheTTL)
		}
	}
	log.Printf("✅ Найдено %d результатов для %q", len(entries), query)
	return result, nil
}

// Title быстро получает заголовок. ok=false при таймауте или ошибке, это не сбой.
func (r *Resolver) Title(ctx context.Context, url string) (string, bool) {
	key := titleKey(url)
	if v, ok := r.cache.Get(key); ok {
		return v.(string), true
	}
	if v, ok := r.cache.Get(infoKey(url)); ok {
		if info := v.(*MediaInfo); info.Title != "" {
			return info.Title, true
		}
	}

	title, err := utils.FirstSuccess(ctx, r.cfg.TitleTimeout, utils.Strategy[string]{
		Name: "title",
		Run: func(ctx context.Context) (string, error) {
			out, err := r.extractor.Run(ctx, url, ExtractOptions{Print: "%(title)s", SkipDownload: true})
			if err != nil {
				return "", err
			}
			t := firstLine(out)
			if t == "" {
				return "", errors.New("пустой заголовок")
			}
			return t, nil
		},
	})
	if err != nil {
		log.Printf("⚠️ Заголовок не получен для %s: %v", url, err)
		return "", false
	}
	r.cache.Set(key, title, r.cfg.TitleCacheTTL)
	return title, true
}

// Info получает полные метаданные, перебирая персоны, затем нативный клиент
func (r *Resolver) Info(ctx context.Context, url string) (*MediaInfo, error) {
	key := infoKey(url)
	if v, ok := r.cache.Get(key); ok {
		return v.(*MediaInfo), nil
	}

	var strategies []utils.Strategy[*MediaInfo]
	for i := range r.personas {
		p := &r.personas[i]
		strategies = append(strategies, utils.Strategy[*MediaInfo]{
			Name: p.Name,
			Run: func(ctx context.Context) (*MediaInfo, error) {
				out, err := r.extractor.Run(ctx, url, ExtractOptions{DumpJSON: true, SkipDownload: true, Persona: p})
				if err != nil {
					return nil, err
				}
				return parseInfoJSON(out)
			},
		})
	}
	if r.native != nil {
		strategies = append(strategies, utils.Strategy[*MediaInfo]{
			Name: "native",
			Run: func(ctx context.Context) (*MediaInfo, error) {
				return r.native.Info(ctx, url)
			},
		})
	}

	info, err := utils.FirstSuccess(ctx, r.cfg.InfoTimeout, strategies...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения метаданных: %w", err)
	}
	if info.URL == "" {
		info.URL = url
	}
	r.cache.Set(key, info, r.cfg.InfoCacheTTL)
	if info.Title != "" {
		r.cache.Set(titleKey(url), info.Title, r.cfg.TitleCacheTTL)
	}
	log.Printf("✅ Метаданные получены: %s - %s", info.Title, info.Uploader)
	return info, nil
}

type ytdlpEntry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	WebpageURL  string   `json:"webpage_url"`
	Uploader    string   `json:"uploader"`
	Channel     string   `json:"channel"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Duration    float64  `json:"duration"`
	ViewCount   int64    `json:"view_count"`
	AgeLimit    int      `json:"age_limit"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
}

type ytdlpDocument struct {
	ytdlpEntry
	Type    string       `json:"_type"`
	Entries []ytdlpEntry `json:"entries"`
}

// jsonPayload вырезает JSON документ из вывода, где могут быть строки логов
func jsonPayload(out string) string {
	out = StripANSI(out)
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return ""
	}
	return out[start : end+1]
}

func parseSearchJSON(out string, limit int) ([]SearchEntry, error) {
	payload := jsonPayload(out)
	if payload == "" {
		return nil, errors.New("в выводе нет JSON")
	}
	var doc ytdlpDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}

	raw := doc.Entries
	// одиночный ролик вместо плейлиста
	if doc.Type != "playlist" && len(raw) == 0 && doc.ID != "" {
		raw = []ytdlpEntry{doc.ytdlpEntry}
	}

	entries := make([]SearchEntry, 0, len(raw))
	for _, e := range raw {
		if e.ID == "" {
			continue
		}
		uploader := e.Uploader
		if uploader == "" {
			uploader = e.Channel
		}
		entries = append(entries, SearchEntry{
			ID:       e.ID,
			Title:    e.Title,
			URL:      WatchURL(e.ID),
			Uploader: uploader,
			Duration: time.Duration(e.Duration * float64(time.Second)),
		})
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func parseInfoJSON(out string) (*MediaInfo, error) {
	payload := jsonPayload(out)
	if payload == "" {
		return nil, errors.New("в выводе нет JSON")
	}
	var e ytdlpEntry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}
	if e.ID == "" && e.Title == "" {
		return nil, errors.New("пустые метаданные")
	}
	uploader := e.Uploader
	if uploader == "" {
		uploader = e.Channel
	}
	return &MediaInfo{
		ID:          e.ID,
		Title:       e.Title,
		Uploader:    uploader,
		Description: e.Description,
		URL:         e.WebpageURL,
		Thumbnail:   e.Thumbnail,
		Duration:    time.Duration(e.Duration * float64(time.Second)),
		Views:       e.ViewCount,
		AgeLimit:    e.AgeLimit,
		Tags:        e.Tags,
		Categories:  e.Categories,
	}, nil
}

func firstLine(out string) string {
	for _, line := range strings.Split(StripANSI(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "WARNING:") {
			continue
		}
		return line
	}
	return ""
}
