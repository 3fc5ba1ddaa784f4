// Package storage хранит сессии чатов и отложенные запросы на скачивание.
package storage

import (
	"fmt"
	"time"
)

// State шаг диалога, на котором находится чат
type State string

const (
	StateMain               State = "MAIN"
	StateAwaitingSearchText State = "AWAITING_SEARCH_TEXT"
	StateAwaitingVideoLink  State = "AWAITING_VIDEO_LINK"
	StateAwaitingAudioLink  State = "AWAITING_AUDIO_LINK"
)

// Valid известное ли состояние
func (s State) Valid() bool {
	switch s {
	case StateMain, StateAwaitingSearchText, StateAwaitingVideoLink, StateAwaitingAudioLink:
		return true
	}
	return false
}

// Session состояние одного чата
type Session struct {
	Language string
	State    State
}

// PendingRequest выбранная цель, ждущая выбора качества/формата
type PendingRequest struct {
	URL       string
	Title     string
	Kind      string // video | audio
	CreatedAt time.Time
}

// SessionStore сессии создаются лениво со значениями по умолчанию
type SessionStore interface {
	GetSession(chatID int64) (Session, error)
	SetState(chatID int64, state State) error
	SetLanguage(chatID int64, lang string) error
}

// RequestStore не больше одного отложенного запроса на чат
type RequestStore interface {
	// GetRequest возвращает nil, если запроса нет
	GetRequest(chatID int64) (*PendingRequest, error)
	// SetRequest перезаписывает предыдущий запрос и ставит CreatedAt
	SetRequest(chatID int64, req PendingRequest) error
	DeleteRequest(chatID int64) error
	// TakeRequest атомарно читает и удаляет запрос
	TakeRequest(chatID int64) (*PendingRequest, error)
	// CleanupRequests удаляет запросы старше maxAge
	CleanupRequests(maxAge time.Duration) (int, error)
}

// Store полный набор хранилищ одного бэкенда
type Store interface {
	SessionStore
	RequestStore
	Close() error
}

// Open создает хранилище по имени бэкенда: memory, json, sqlite
func Open(backend, dataDir, defaultLang string, requestMaxAge time.Duration) (Store, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(defaultLang), nil
	case "json":
		return NewJSONStore(dataDir, defaultLang, requestMaxAge)
	case "sqlite":
		return NewSQLiteStore(dataDir, defaultLang)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища %q", backend)
	}
}

func defaultSession(lang string) Session {
	return Session{Language: lang, State: StateMain}
}
