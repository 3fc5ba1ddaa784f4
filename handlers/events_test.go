package handlers

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestEventFromUpdate(t *testing.T) {
	chat := &tgbotapi.Chat{ID: 10}
	user := &tgbotapi.User{ID: 20}

	tests := []struct {
		name   string
		update tgbotapi.Update
		want   Event
		ok     bool
	}{
		{
			name: "command with args",
			update: tgbotapi.Update{Message: &tgbotapi.Message{
				MessageID: 1, Chat: chat, From: user, Text: "/unblock 55",
				Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 8}},
			}},
			want: Event{Kind: EventCommand, ChatID: 10, UserID: 20, MessageID: 1, Command: "unblock", Text: "55"},
			ok:   true,
		},
		{
			name:   "text",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 2, Chat: chat, From: user, Text: "hello"}},
			want:   Event{Kind: EventText, ChatID: 10, UserID: 20, MessageID: 2, Text: "hello"},
			ok:     true,
		},
		{
			name:   "voice",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 3, Chat: chat, From: user, Voice: &tgbotapi.Voice{FileID: "v1"}}},
			want:   Event{Kind: EventAudio, ChatID: 10, UserID: 20, MessageID: 3, FileID: "v1"},
			ok:     true,
		},
		{
			name:   "audio",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 4, Chat: chat, Audio: &tgbotapi.Audio{FileID: "a1"}}},
			want:   Event{Kind: EventAudio, ChatID: 10, UserID: 10, MessageID: 4, FileID: "a1"},
			ok:     true,
		},
		{
			name: "callback",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
				ID: "cb1", From: user, Data: "video_720",
				Message: &tgbotapi.Message{MessageID: 5, Chat: chat},
			}},
			want: Event{Kind: EventCallback, ChatID: 10, UserID: 20, MessageID: 5, CallbackID: "cb1", Data: "video_720"},
			ok:   true,
		},
		{
			name:   "inline callback without message",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb2", From: user, Data: "x"}},
		},
		{
			name:   "sticker",
			update: tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 6, Chat: chat, Sticker: &tgbotapi.Sticker{FileID: "s"}}},
		},
		{
			name:   "empty update",
			update: tgbotapi.Update{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EventFromUpdate(tt.update)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}
