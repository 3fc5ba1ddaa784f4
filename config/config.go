package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию бота
type Config struct {
	TelegramToken       string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	TelegramAPIEndpoint string        `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org/bot%s/%s"`
	AdminID             int64         `envconfig:"ADMIN_ID" default:"0"`
	HTTPTimeout         time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`
	LogDebug            bool          `envconfig:"LOG_DEBUG" default:"false"`

	DownloadDir     string `envconfig:"DOWNLOAD_DIR" default:"./downloads"`
	DataDir         string `envconfig:"DATA_DIR" default:"./data"`
	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"json"`
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"uz"`

	YtDlp YtDlpConfig `ignored:"true"`

	MaxUploadMB          float64       `envconfig:"MAX_UPLOAD_MB" default:"49.5"`
	MaxParallelDownloads int64         `envconfig:"MAX_PARALLEL_DOWNLOADS" default:"4"`
	SearchLimit          int           `envconfig:"SEARCH_LIMIT" default:"5"`
	SearchCacheTTL       time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"10m"`
	InfoCacheTTL         time.Duration `envconfig:"INFO_CACHE_TTL" default:"30m"`
	TitleCacheTTL        time.Duration `envconfig:"TITLE_CACHE_TTL" default:"1h"`
	TitleTimeout         time.Duration `envconfig:"TITLE_TIMEOUT" default:"2s"`
	InfoTimeout          time.Duration `envconfig:"INFO_TIMEOUT" default:"8s"`
	SearchTimeout        time.Duration `envconfig:"SEARCH_TIMEOUT" default:"15s"`

	RecognitionEndpoint string        `envconfig:"RECOGNITION_ENDPOINT" default:"https://api.audd.io/"`
	RecognitionToken    string        `envconfig:"RECOGNITION_TOKEN"`
	RecognitionTimeout  time.Duration `envconfig:"RECOGNITION_TIMEOUT" default:"20s"`
	RecognitionMaxBytes int           `envconfig:"RECOGNITION_MAX_BYTES" default:"2097152"`

	ActivityInterval   time.Duration `envconfig:"ACTIVITY_INTERVAL" default:"4s"`
	RequestMaxAge      time.Duration `envconfig:"REQUEST_MAX_AGE" default:"24h"`
	ModerationKeywords []string      `envconfig:"MODERATION_KEYWORDS"`
	StrikeLimit        int           `envconfig:"STRIKE_LIMIT" default:"3"`
	FloodRate          float64       `envconfig:"FLOOD_RATE" default:"2"`
	FloodBurst         int           `envconfig:"FLOOD_BURST" default:"6"`
	HealthAddr         string        `envconfig:"HEALTH_ADDR" default:":3001"`

	ProxyConfig
}

// YtDlpConfig настройки инструмента извлечения (переменные YTDLP_*).
// Читается отдельно и без префикса: иначе envconfig подставит системный PATH вместо YTDLP_PATH.
type YtDlpConfig struct {
	Path                string   `envconfig:"YTDLP_PATH"`
	Cookies             string   `envconfig:"YTDLP_COOKIES"`
	ForceIPv4           bool     `envconfig:"YTDLP_FORCE_IPV4" default:"true"`
	ConcurrentFragments int      `envconfig:"YTDLP_CONCURRENT_FRAGMENTS" default:"16"`
	ChunkSize           string   `envconfig:"YTDLP_CHUNK_SIZE" default:"10M"`
	Personas            []string `envconfig:"YTDLP_PERSONAS" default:"android,ios,web"`
}

// MaxUploadBytes возвращает лимит размера вложения в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB * 1024 * 1024)
}

// Load загружает конфигурацию из файла (если он есть) и переменных окружения
func Load(filename string) (*Config, error) {
	if filename != "" {
		if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ошибка чтения %s: %w", filename, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	if err := envconfig.Process("", &cfg.YtDlp); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации yt-dlp: %w", err)
	}

	switch cfg.StorageBackend {
	case "memory", "json", "sqlite":
	default:
		return nil, fmt.Errorf("неизвестный STORAGE_BACKEND %q (memory, json, sqlite)", cfg.StorageBackend)
	}
	if cfg.MaxParallelDownloads < 1 {
		cfg.MaxParallelDownloads = 1
	}
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = 5
	}
	cfg.ProxyConfig.normalize()

	return &cfg, nil
}
