package handlers

import (
	"sync"

	"golang.org/x/time/rate"
)

// FloodGuard ограничивает частоту входящих событий от одного чата
type FloodGuard struct {
	mutex    sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewFloodGuard создает ограничитель. perSecond <= 0 отключает проверку.
func NewFloodGuard(perSecond float64, burst int) *FloodGuard {
	if burst < 1 {
		burst = 1
	}
	return &FloodGuard{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow можно ли обработать ещё одно событие чата
func (f *FloodGuard) Allow(chatID int64) bool {
	if f == nil || f.limit <= 0 {
		return true
	}
	f.mutex.Lock()
	limiter, ok := f.limiters[chatID]
	if !ok {
		limiter = rate.NewLimiter(f.limit, f.burst)
		f.limiters[chatID] = limiter
	}
	f.mutex.Unlock()
	return limiter.Allow()
}

// Len число отслеживаемых чатов
func (f *FloodGuard) Len() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.limiters)
}

// Forget удаляет лимитеры простаивающих чатов (ведро снова полное)
func (f *FloodGuard) Forget() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	removed := 0
	for id, l := range f.limiters {
		if l.Tokens() >= float64(f.burst) {
			delete(f.limiters, id)
			removed++
		}
	}
	return removed
}
