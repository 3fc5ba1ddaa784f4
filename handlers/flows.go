package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tezBot/i18n"
	"tezBot/services"
	"tezBot/storage"
	"tezBot/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrFileTooLarge файл не проходит лимит вложения
var ErrFileTooLarge = errors.New("файл превышает лимит вложения")

// runSearch проверяет запрос модерацией и показывает результаты кнопками. Состояние не меняется.
func (b *Bot) runSearch(ctx context.Context, ev Event, lang, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.send(ev.ChatID, i18n.Text(lang, "prompt_music"), nil)
		return
	}
	if v := b.moderator.CheckText(query); !v.Safe {
		b.strike(ev, lang, v)
		return
	}

	status := b.send(ev.ChatID, i18n.Text(lang, "searching"), nil)
	result, err := b.resolver.Search(ctx, query, b.opts.SearchLimit)
	b.deleteMessage(ev.ChatID, status)
	if err != nil {
		log.Printf("❌ Ошибка поиска %q: %v", query, err)
		b.send(ev.ChatID, i18n.Text(lang, "error"), nil)
		return
	}
	if len(result.Entries) == 0 {
		b.send(ev.ChatID, i18n.Text(lang, "not_found"), nil)
		return
	}
	b.send(ev.ChatID, i18n.Text(lang, "results"), searchResultsKeyboard(result.Entries))
}

// handleLink разбирает ссылку, проверяет метаданные и предлагает качество или формат
func (b *Bot) handleLink(ctx context.Context, ev Event, lang, text string, kind services.MediaKind) {
	url, ok := b.detector.ExtractURL(text)
	if !ok {
		b.send(ev.ChatID, i18n.Text(lang, "invalid_link"), nil)
		return
	}
	b.detector.LogPlatformInfo(b.detector.DetectPlatform(url), url)

	status := b.send(ev.ChatID, i18n.Text(lang, "fetching"), nil)
	defer b.deleteMessage(ev.ChatID, status)

	var title string
	info, err := b.resolver.Info(ctx, url)
	if err == nil {
		if v := b.moderator.CheckMetadata(info); !v.Safe {
			b.strike(ev, lang, v)
			return
		}
		title = info.Title
	} else {
		log.Printf("⚠️ Метаданные %s недоступны: %v", url, err)
		if t, ok := b.resolver.Title(ctx, url); ok {
			title = t
		}
		if title != "" {
			if v := b.moderator.CheckText(title); !v.Safe {
				b.strike(ev, lang, v)
				return
			}
		}
	}
	if title == "" {
		title = b.detector.FallbackTitle(url)
	}

	if err := b.requests.SetRequest(ev.ChatID, storage.PendingRequest{URL: url, Title: title, Kind: string(kind)}); err != nil {
		log.Printf("❌ Ошибка сохранения запроса чата %d: %v", ev.ChatID, err)
		b.send(ev.ChatID, i18n.Text(lang, "error"), nil)
		return
	}

	if kind == services.KindAudio {
		b.send(ev.ChatID, i18n.Format(lang, "select_format", "title", escape(title)), formatKeyboard())
		return
	}
	b.send(ev.ChatID, i18n.Format(lang, "select_quality", "title", escape(title)), qualityKeyboard())
}

// handleSelection выбранный результат поиска сразу скачивается как аудио
func (b *Bot) handleSelection(ctx context.Context, ev Event, lang, id string) {
	b.answer(ev, "")
	if id == "" {
		b.send(ev.ChatID, i18n.Text(lang, "expired"), nil)
		return
	}
	b.deleteMessage(ev.ChatID, ev.MessageID)

	url := services.WatchURL(id)
	title, ok := b.resolver.Title(ctx, url)
	if !ok || title == "" {
		title = b.detector.FallbackTitle(url)
	}

	status := b.send(ev.ChatID, i18n.Text(lang, "downloading"), nil)
	err := b.deliver(ctx, ev.ChatID, lang, services.DownloadRequest{
		URL:         url,
		Kind:        services.KindAudio,
		AudioFormat: "mp3",
	}, title)
	b.deleteMessage(ev.ChatID, status)
	if err != nil {
		return
	}
	b.send(ev.ChatID, i18n.Text(lang, "done"), doneKeyboard(lang))
}

// handleFormatChoice забирает отложенный запрос; нет запроса значит он устарел
func (b *Bot) handleFormatChoice(ctx context.Context, ev Event, lang, data string) {
	req, err := b.requests.TakeRequest(ev.ChatID)
	if err != nil {
		log.Printf("❌ Ошибка чтения запроса чата %d: %v", ev.ChatID, err)
	}
	if req != nil && b.opts.RequestMaxAge > 0 && b.now().Sub(req.CreatedAt) > b.opts.RequestMaxAge {
		log.Printf("⏰ Запрос чата %d устарел (%v)", ev.ChatID, req.CreatedAt.Format(time.RFC3339))
		req = nil
	}
	if req == nil {
		b.answer(ev, i18n.Text(lang, "expired"))
		b.send(ev.ChatID, i18n.Text(lang, "expired"), nil)
		return
	}
	b.answer(ev, "")

	dr := services.DownloadRequest{URL: req.URL}
	switch {
	case data == cbAudio:
		dr.Kind, dr.AudioFormat = services.KindAudio, "mp3"
	case data == cbAudioM4A:
		dr.Kind, dr.AudioFormat = services.KindAudio, "m4a"
	default:
		dr.Kind = services.KindVideo
		dr.Height, _ = strconv.Atoi(strings.TrimPrefix(data, cbVideo))
	}

	if err := b.msg.EditText(ev.ChatID, ev.MessageID, i18n.Text(lang, "downloading"), nil); err != nil {
		log.Printf("⚠️ Не удалось обновить сообщение: %v", err)
	}
	if err := b.deliver(ctx, ev.ChatID, lang, dr, req.Title); err != nil {
		return
	}
	b.deleteMessage(ev.ChatID, ev.MessageID)
}

// deliver слот, индикатор активности, загрузка, проверка размера, отправка.
// Файл удаляется в любом случае; об ошибке пользователь уже уведомлён.
func (b *Bot) deliver(ctx context.Context, chatID int64, lang string, req services.DownloadRequest, title string) error {
	release, err := b.slots.Acquire(ctx)
	if err != nil {
		log.Printf("❌ Не дождались слота загрузки для чата %d: %v", chatID, err)
		b.send(chatID, i18n.Text(lang, "error"), nil)
		return err
	}
	defer release()

	req.OutputTemplate = filepath.Join(b.media.DownloadDir(),
		fmt.Sprintf("%s_%d.%%(ext)s", utils.SanitizeFilename(title), b.now().UnixMilli()))

	stop := b.startActivity(ctx, chatID, tgbotapi.ChatTyping)
	defer stop()
	start := time.Now()
	path, err := b.media.Download(ctx, req)
	stop()
	if err != nil {
		log.Printf("❌ Загрузка %s для чата %d не удалась: %v", req.URL, chatID, err)
		b.send(chatID, i18n.Text(lang, "error"), nil)
		return err
	}
	defer b.removeFile(path)
	log.Printf("✅ Загружено за %v: %s", time.Since(start).Round(time.Millisecond), path)

	stat, err := os.Stat(path)
	if err != nil {
		log.Printf("❌ Файл %s недоступен: %v", path, err)
		b.send(chatID, i18n.Text(lang, "error"), nil)
		return err
	}
	if b.opts.MaxUploadBytes > 0 && stat.Size() > b.opts.MaxUploadBytes {
		sizeMB := float64(stat.Size()) / (1024 * 1024)
		log.Printf("⚠️ Файл %s слишком большой: %.2f MB", path, sizeMB)
		b.send(chatID, i18n.Format(lang, "file_too_large", "size", fmt.Sprintf("%.2f", sizeMB)), nil)
		return ErrFileTooLarge
	}

	action, caption, notice := tgbotapi.ChatUploadVideo, escape(title), "uploading_video"
	if req.Kind == services.KindAudio {
		action, caption, notice = tgbotapi.ChatUploadVoice, "", "uploading_audio"
	}
	b.sendAction(chatID, action)
	uploading := b.send(chatID, i18n.Text(lang, notice), nil)
	defer b.deleteMessage(chatID, uploading)
	if err := b.msg.SendFile(chatID, req.Kind, path, title, caption); err != nil {
		log.Printf("❌ Отправка файла в чат %d не удалась: %v", chatID, err)
		b.send(chatID, i18n.Text(lang, "error"), nil)
		return err
	}
	return nil
}

func (b *Bot) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Не удалось удалить %s: %v", path, err)
		return
	}
	log.Printf("🗑️ Удалён файл %s", path)
}

// handleAudio распознаёт присланный трек и предлагает его скачать
func (b *Bot) handleAudio(ctx context.Context, ev Event, lang string) {
	b.sendAction(ev.ChatID, tgbotapi.ChatRecordVoice)
	status := b.send(ev.ChatID, i18n.Text(lang, "recognizing"), nil)
	defer b.deleteMessage(ev.ChatID, status)

	var data []byte
	err := utils.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		data, fetchErr = b.msg.FetchFile(ctx, ev.FileID)
		return fetchErr
	}, 2, time.Second)
	if err != nil {
		log.Printf("❌ Не удалось получить аудио %s: %v", ev.FileID, err)
		b.send(ev.ChatID, i18n.Text(lang, "error"), nil)
		return
	}

	track := b.recognizer.Recognize(ctx, data)
	if track == nil {
		b.send(ev.ChatID, i18n.Text(lang, "shazam_not_found"), nil)
		return
	}
	log.Printf("🎵 Распознано для чата %d: %s", ev.ChatID, track.Query())

	text := i18n.Format(lang, "shazam_found",
		"artist", escape(orDash(track.Artist)),
		"title", escape(track.Title),
		"album", escape(orDash(track.Album)),
		"year", escape(orDash(track.Year)),
	)
	b.send(ev.ChatID, text, recognitionKeyboard(lang, track))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
