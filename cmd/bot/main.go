package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tezBot/config"
	"tezBot/handlers"
	"tezBot/internal/health"
	"tezBot/internal/logx"
	"tezBot/internal/netx"
	"tezBot/services"
	"tezBot/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	logx.Init(os.Stdout, cfg.LogDebug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Порт health занимаем первым: второй экземпляр сразу завершится
	runner := services.NewYtDlpRunner(cfg.YtDlp, &cfg.ProxyConfig)
	slots := services.NewDownloadSlots(cfg.MaxParallelDownloads)
	httpClient := netx.NewHTTPClient(&cfg.ProxyConfig, cfg.HTTPTimeout)

	healthSrv, err := health.Listen(cfg.HealthAddr, health.NewRouter(map[string]health.Check{
		"ytdlp": func(context.Context) error { return runner.CheckBinary() },
		"youtube": func(ctx context.Context) error {
			return netx.CheckNetwork(ctx, httpClient, "https://www.youtube.com")
		},
	}, slots.Stats))
	if err != nil {
		if errors.Is(err, health.ErrAlreadyRunning) {
			logx.Error("⚠️ %v. Этот экземпляр закрывается.", err)
			os.Exit(1)
		}
		log.Fatalf("❌ %v", err)
	}

	// Проверяем yt-dlp
	if err := runner.CheckBinary(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	go func() {
		if err := healthSrv.Serve(); err != nil {
			logx.Error("❌ Health сервер остановлен: %v", err)
		}
	}()

	if err := netx.CheckNetwork(ctx, httpClient, "https://www.youtube.com"); err != nil {
		logx.Warn("⚠️ Проблемы с сетью, бот может работать нестабильно: %v", err)
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		log.Fatalf("❌ Ошибка создания директории загрузок: %v", err)
	}

	store, err := storage.Open(cfg.StorageBackend, cfg.DataDir, cfg.DefaultLanguage, cfg.RequestMaxAge)
	if err != nil {
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()
	logx.Component("storage", "Бэкенд %s, данные в %s", cfg.StorageBackend, cfg.DataDir)

	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, cfg.TelegramAPIEndpoint, httpClient)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к Telegram API: %v", err)
	}
	api.Debug = cfg.LogDebug
	logx.Component("bot", "✅ Бот успешно подключен: @%s", api.Self.UserName)

	personas := services.ResolvePersonas(cfg.YtDlp.Personas)
	if len(personas) == 0 {
		personas = services.DefaultPersonas()
	}
	cache := services.NewResultCache()
	cache.StartJanitor(ctx, time.Minute)

	resolver := services.NewResolver(runner, cache, personas, services.ResolverConfig{
		SearchTimeout:  cfg.SearchTimeout,
		TitleTimeout:   cfg.TitleTimeout,
		InfoTimeout:    cfg.InfoTimeout,
		SearchCacheTTL: cfg.SearchCacheTTL,
		TitleCacheTTL:  cfg.TitleCacheTTL,
		InfoCacheTTL:   cfg.InfoCacheTTL,
	}, services.NewYTSearch(httpClient), services.NewYouTubeNative(httpClient))

	flood := handlers.NewFloodGuard(cfg.FloodRate, cfg.FloodBurst)

	bot := handlers.NewBot(handlers.Deps{
		Messenger:  handlers.NewTelegramMessenger(api, httpClient),
		Sessions:   store,
		Requests:   store,
		Media:      services.NewMediaService(runner, personas, cfg.DownloadDir),
		Resolver:   resolver,
		Recognizer: services.NewRecognitionService(cfg.RecognitionEndpoint, cfg.RecognitionToken, cfg.RecognitionTimeout, cfg.RecognitionMaxBytes, httpClient),
		Moderator:  services.NewModerator(cfg.ModerationKeywords, cfg.StrikeLimit),
		Slots:      slots,
		Detector:   services.NewPlatformDetector(),
		Flood:      flood,
	}, handlers.Options{
		AdminID:          cfg.AdminID,
		MaxUploadBytes:   cfg.MaxUploadBytes(),
		SearchLimit:      cfg.SearchLimit,
		ActivityInterval: cfg.ActivityInterval,
		DefaultLanguage:  cfg.DefaultLanguage,
		RequestMaxAge:    cfg.RequestMaxAge,
	})

	go runJanitor(ctx, store, flood, cfg.RequestMaxAge)

	log.Printf("🎬 Бот готов к работе!")

	// Основной цикл получения обновлений
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			ev, ok := handlers.EventFromUpdate(update)
			if !ok {
				continue
			}
			logx.Debug("📨 %s от чата %d", ev.Kind, ev.ChatID)
			wg.Add(1)
			go func() {
				defer wg.Done()
				bot.Handle(ctx, ev)
			}()
		}
	}

	log.Printf("🛑 Получен сигнал завершения, завершаю работу...")
	api.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	waitGroup(shutdownCtx, &wg)
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logx.Error("❌ Ошибка остановки health сервера: %v", err)
	}
	log.Printf("✅ Бот остановлен")
}

// runJanitor чистит устаревшие запросы и лимитеры простаивающих чатов
func runJanitor(ctx context.Context, store storage.RequestStore, flood *handlers.FloodGuard, maxAge time.Duration) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.CleanupRequests(maxAge)
			if err != nil {
				logx.Error("❌ Ошибка очистки запросов: %v", err)
			} else if removed > 0 {
				logx.Component("storage", "🗑️ Удалено %d устаревших запросов", removed)
			}
			if n := flood.Forget(); n > 0 {
				logx.Debug("🗑️ Сброшено %d лимитеров", n)
			}
		}
	}
}

// waitGroup ждёт обработчики, но не дольше ctx
func waitGroup(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logx.Warn("⚠️ Не все обработчики завершились за отведённое время")
	}
}
