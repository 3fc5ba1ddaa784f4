package services

import (
	"context"
	"log"
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// ResultCache хранит результаты поиска и метаданные с ограниченным сроком жизни.
// Ошибки сюда не попадают: кладём только успешные ответы.
type ResultCache struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex // Защита от race conditions
	now     func() time.Time
}

// NewResultCache создает пустой кэш
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get возвращает значение, если оно есть и не просрочено
func (c *ResultCache) Get(key string) (any, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.Delete(key)
		return nil, false
	}
	return entry.value, true
}

// Set сохраняет значение на ttl. Нулевой или отрицательный ttl ничего не кладёт.
func (c *ResultCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete удаляет ключ
func (c *ResultCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
}

// Len возвращает число записей, включая ещё не вычищенные просроченные
func (c *ResultCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// Prune удаляет просроченные записи и возвращает их число
func (c *ResultCache) Prune(now time.Time) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor периодически чистит кэш до отмены контекста
func (c *ResultCache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.Prune(c.now()); removed > 0 {
					log.Printf("🗑️ Кэш: удалено %d просроченных записей", removed)
				}
			}
		}
	}()
}
