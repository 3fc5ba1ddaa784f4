package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventKind тип входящего события
type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventCallback
	EventAudio
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	case EventCallback:
		return "callback"
	case EventAudio:
		return "audio"
	}
	return "unknown"
}

// Event входящее обновление, сведённое к тому, что нужно автомату
type Event struct {
	Kind      EventKind
	ChatID    int64
	UserID    int64
	MessageID int

	Text    string // текст сообщения или аргументы команды
	Command string // без слэша

	CallbackID string
	Data       string

	FileID string // voice или audio
}

// EventFromUpdate разбирает tgbotapi.Update. ok=false для обновлений, которые бот не обрабатывает.
func EventFromUpdate(update tgbotapi.Update) (Event, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return Event{}, false
		}
		ev := Event{
			Kind:       EventCallback,
			ChatID:     cb.Message.Chat.ID,
			MessageID:  cb.Message.MessageID,
			CallbackID: cb.ID,
			Data:       cb.Data,
		}
		if cb.From != nil {
			ev.UserID = cb.From.ID
		}
		return ev, true
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return Event{}, false
	}
	ev := Event{ChatID: msg.Chat.ID, MessageID: msg.MessageID, UserID: msg.Chat.ID}
	if msg.From != nil {
		ev.UserID = msg.From.ID
	}

	switch {
	case msg.Voice != nil:
		ev.Kind = EventAudio
		ev.FileID = msg.Voice.FileID
	case msg.Audio != nil:
		ev.Kind = EventAudio
		ev.FileID = msg.Audio.FileID
	case msg.IsCommand():
		ev.Kind = EventCommand
		ev.Command = strings.ToLower(msg.Command())
		ev.Text = strings.TrimSpace(msg.CommandArguments())
	case msg.Text != "":
		ev.Kind = EventText
		ev.Text = msg.Text
	default:
		return Event{}, false
	}
	return ev, true
}
