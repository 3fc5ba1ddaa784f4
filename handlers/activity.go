package handlers

import (
	"context"
	"log"
	"sync"
	"time"
)

// startActivity сразу шлёт chat action и повторяет его каждые interval.
// Возвращённая stop останавливает повтор и дожидается выхода горутины; вызывать можно сколько угодно раз.
func (b *Bot) startActivity(ctx context.Context, chatID int64, action string) (stop func()) {
	b.sendAction(chatID, action)

	interval := b.opts.ActivityInterval
	if interval <= 0 {
		return func() {}
	}

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.sendAction(chatID, action)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}

func (b *Bot) sendAction(chatID int64, action string) {
	if err := b.msg.SendChatAction(chatID, action); err != nil {
		log.Printf("⚠️ Не удалось отправить действие %s в чат %d: %v", action, chatID, err)
	}
}
