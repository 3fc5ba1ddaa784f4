package storage

import (
	"sync"
	"time"
)

// MemoryStore хранит всё в памяти процесса
type MemoryStore struct {
	mutex       sync.Mutex
	sessions    map[int64]Session
	requests    map[int64]PendingRequest
	defaultLang string
	now         func() time.Time
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore(defaultLang string) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[int64]Session),
		requests:    make(map[int64]PendingRequest),
		defaultLang: defaultLang,
		now:         time.Now,
	}
}

func (m *MemoryStore) sessionLocked(chatID int64) Session {
	s, ok := m.sessions[chatID]
	if !ok {
		s = defaultSession(m.defaultLang)
		m.sessions[chatID] = s
	}
	return s
}

func (m *MemoryStore) GetSession(chatID int64) (Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.sessionLocked(chatID), nil
}

func (m *MemoryStore) SetState(chatID int64, state State) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	s := m.sessionLocked(chatID)
	s.State = state
	m.sessions[chatID] = s
	return nil
}

func (m *MemoryStore) SetLanguage(chatID int64, lang string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	s := m.sessionLocked(chatID)
	s.Language = lang
	m.sessions[chatID] = s
	return nil
}

func (m *MemoryStore) GetRequest(chatID int64) (*PendingRequest, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if r, ok := m.requests[chatID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *MemoryStore) SetRequest(chatID int64, req PendingRequest) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	req.CreatedAt = m.now()
	m.requests[chatID] = req
	return nil
}

func (m *MemoryStore) DeleteRequest(chatID int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.requests, chatID)
	return nil
}

func (m *MemoryStore) TakeRequest(chatID int64) (*PendingRequest, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	r, ok := m.requests[chatID]
	if !ok {
		return nil, nil
	}
	delete(m.requests, chatID)
	return &r, nil
}

func (m *MemoryStore) CleanupRequests(maxAge time.Duration) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return pruneRequests(m.requests, m.now(), maxAge), nil
}

func (m *MemoryStore) Close() error { return nil }

func pruneRequests(requests map[int64]PendingRequest, now time.Time, maxAge time.Duration) int {
	removed := 0
	for id, r := range requests {
		if now.Sub(r.CreatedAt) > maxAge {
			delete(requests, id)
			removed++
		}
	}
	return removed
}
