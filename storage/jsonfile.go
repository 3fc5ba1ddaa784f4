package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ErrCorrupted документ не разобрался как JSON
var ErrCorrupted = errors.New("файл хранилища повреждён")

type jsonSession struct {
	Lang  string `json:"lang"`
	State State  `json:"state"`
}

type jsonRequest struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // unix ms
}

type jsonDocument struct {
	Users    map[string]jsonSession `json:"users"`
	Requests map[string]jsonRequest `json:"requests"`
}

// JSONStore один JSON документ на диске, переписывается целиком при каждом изменении
type JSONStore struct {
	path        string
	mutex       sync.Mutex
	sessions    map[int64]Session
	requests    map[int64]PendingRequest
	defaultLang string
	now         func() time.Time
}

// NewJSONStore открывает (или создаёт) dataDir/db.json.
// Повреждённый файл переименовывается в db.json.bak.<unix> и начинается чистый документ.
func NewJSONStore(dataDir, defaultLang string, requestMaxAge time.Duration) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории данных: %w", err)
	}
	s := &JSONStore{
		path:        filepath.Join(dataDir, "db.json"),
		sessions:    make(map[int64]Session),
		requests:    make(map[int64]PendingRequest),
		defaultLang: defaultLang,
		now:         time.Now,
	}

	err := s.load()
	switch {
	case errors.Is(err, ErrCorrupted):
		backup := fmt.Sprintf("%s.bak.%d", s.path, s.now().Unix())
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return nil, fmt.Errorf("не удалось отложить повреждённый файл: %w", renameErr)
		}
		log.Printf("⚠️ %v, сохранён как %s, начинаю с чистого документа", err, backup)
	case err != nil:
		return nil, err
	}

	if requestMaxAge > 0 {
		if removed := pruneRequests(s.requests, s.now(), requestMaxAge); removed > 0 {
			log.Printf("🗑️ Удалено %d устаревших запросов", removed)
		}
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	log.Printf("💾 JSON хранилище: %s (%d чатов)", s.path, len(s.sessions))
	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения %s: %w", s.path, err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	for key, u := range doc.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		sess := Session{Language: u.Lang, State: u.State}
		if sess.Language == "" {
			sess.Language = s.defaultLang
		}
		if !sess.State.Valid() {
			sess.State = StateMain
		}
		s.sessions[id] = sess
	}
	for key, r := range doc.Requests {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		s.requests[id] = PendingRequest{URL: r.URL, Title: r.Title, Kind: r.Type, CreatedAt: time.UnixMilli(r.Timestamp)}
	}
	return nil
}

// save пишет документ во временный файл и переименовывает его поверх основного
func (s *JSONStore) save() error {
	doc := jsonDocument{
		Users:    make(map[string]jsonSession, len(s.sessions)),
		Requests: make(map[string]jsonRequest, len(s.requests)),
	}
	for id, sess := range s.sessions {
		doc.Users[strconv.FormatInt(id, 10)] = jsonSession{Lang: sess.Language, State: sess.State}
	}
	for id, r := range s.requests {
		doc.Requests[strconv.FormatInt(id, 10)] = jsonRequest{URL: r.URL, Title: r.Title, Type: r.Kind, Timestamp: r.CreatedAt.UnixMilli()}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка замены %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) sessionLocked(chatID int64) Session {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = defaultSession(s.defaultLang)
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *JSONStore) GetSession(chatID int64) (Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sessionLocked(chatID), nil
}

func (s *JSONStore) SetState(chatID int64, state State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.sessionLocked(chatID)
	sess.State = state
	s.sessions[chatID] = sess
	return s.save()
}

func (s *JSONStore) SetLanguage(chatID int64, lang string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.sessionLocked(chatID)
	sess.Language = lang
	s.sessions[chatID] = sess
	return s.save()
}

func (s *JSONStore) GetRequest(chatID int64) (*PendingRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if r, ok := s.requests[chatID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *JSONStore) SetRequest(chatID int64, req PendingRequest) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	req.CreatedAt = s.now()
	s.requests[chatID] = req
	return s.save()
}

func (s *JSONStore) DeleteRequest(chatID int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.requests[chatID]; !ok {
		return nil
	}
	delete(s.requests, chatID)
	return s.save()
}

func (s *JSONStore) TakeRequest(chatID int64) (*PendingRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r, ok := s.requests[chatID]
	if !ok {
		return nil, nil
	}
	delete(s.requests, chatID)
	return &r, s.save()
}

func (s *JSONStore) CleanupRequests(maxAge time.Duration) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	removed := pruneRequests(s.requests, s.now(), maxAge)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save()
}

func (s *JSONStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.save()
}
