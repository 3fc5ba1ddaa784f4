package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"tezBot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot API отдаёт через getFile файлы до 20 МБ
const maxFetchBytes = 20 << 20

// Messenger исходящая сторона чата
type Messenger interface {
	// SendText отправляет HTML-сообщение; markup может быть nil, inline или reply клавиатурой
	SendText(chatID int64, text string, markup any) (int, error)
	EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID, text string) error
	SendChatAction(chatID int64, action string) error
	SendFile(chatID int64, kind services.MediaKind, path, title, caption string) error
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}

// TelegramMessenger реализует Messenger поверх tgbotapi
type TelegramMessenger struct {
	api    *tgbotapi.BotAPI
	client *http.Client
}

// NewTelegramMessenger создает отправителя. client используется для скачивания файлов пользователя.
func NewTelegramMessenger(api *tgbotapi.BotAPI, client *http.Client) *TelegramMessenger {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramMessenger{api: api, client: client}
}

// SendText отправляет текстовое сообщение
func (t *TelegramMessenger) SendText(chatID int64, text string, markup any) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return sent.MessageID, nil
}

// EditText заменяет текст (и inline клавиатуру) сообщения
func (t *TelegramMessenger) EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	if _, err := t.api.Request(edit); err != nil {
		return fmt.Errorf("ошибка редактирования сообщения: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) DeleteMessage(chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("ошибка удаления сообщения: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) AnswerCallback(callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("ошибка ответа на callback: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) SendChatAction(chatID int64, action string) error {
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		return fmt.Errorf("ошибка отправки действия: %w", err)
	}
	return nil
}

// SendFile отправляет видео или аудио с диска
func (t *TelegramMessenger) SendFile(chatID int64, kind services.MediaKind, path, title, caption string) error {
	log.Printf("📤 Отправка %s в Telegram: %s", kind, path)

	var c tgbotapi.Chattable
	switch kind {
	case services.KindVideo:
		video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
		video.Caption = caption
		video.ParseMode = tgbotapi.ModeHTML
		video.SupportsStreaming = true
		c = video
	case services.KindAudio:
		audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
		audio.Title = title
		audio.Caption = caption
		audio.ParseMode = tgbotapi.ModeHTML
		c = audio
	default:
		return fmt.Errorf("%w: %s", services.ErrUnsupportedKind, kind)
	}

	if _, err := t.api.Send(c); err != nil {
		return fmt.Errorf("ошибка отправки файла: %w", err)
	}
	log.Printf("✅ Файл отправлен в чат %d", chatID)
	return nil
}

// FetchFile скачивает присланный пользователем файл
func (t *TelegramMessenger) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	link, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ссылки на файл: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка скачивания файла: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("неуспешный статус скачивания файла: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}
	return data, nil
}
