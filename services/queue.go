package services

import (
	"context"
	"log"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DownloadSlots ограничивает число одновременных загрузок на весь бот
type DownloadSlots struct {
	sem     *semaphore.Weighted
	size    int64
	active  atomic.Int64
	waiting atomic.Int64
}

// NewDownloadSlots создает ограничитель на n слотов
func NewDownloadSlots(n int64) *DownloadSlots {
	if n < 1 {
		n = 1
	}
	log.Printf("🚀 Параллельных загрузок: %d", n)
	return &DownloadSlots{sem: semaphore.NewWeighted(n), size: n}
}

// Acquire ждёт свободный слот и возвращает функцию освобождения.
// Повторный вызов release ничего не делает.
func (s *DownloadSlots) Acquire(ctx context.Context) (func(), error) {
	s.waiting.Add(1)
	err := s.sem.Acquire(ctx, 1)
	s.waiting.Add(-1)
	if err != nil {
		return nil, err
	}
	s.active.Add(1)

	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			s.active.Add(-1)
			s.sem.Release(1)
		}
	}, nil
}

// Stats возвращает статистику для health эндпоинта
func (s *DownloadSlots) Stats() map[string]int64 {
	return map[string]int64{
		"slots":   s.size,
		"active":  s.active.Load(),
		"waiting": s.waiting.Load(),
	}
}
