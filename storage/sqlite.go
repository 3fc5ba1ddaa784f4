package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore хранит сессии и запросы в SQLite
type SQLiteStore struct {
	db          *sql.DB
	defaultLang string
	mutex       sync.Mutex // Защита TakeRequest от гонок между чтением и удалением
	now         func() time.Time
}

// NewSQLiteStore открывает dataDir/bot.db
func NewSQLiteStore(dataDir, defaultLang string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории данных: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bot.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания таблиц: %w", err)
	}

	log.Printf("💾 SQLite хранилище: %s", dbPath)
	return &SQLiteStore{db: db, defaultLang: defaultLang, now: time.Now}, nil
}

// createTables создает таблицы сессий и запросов
func createTables(db *sql.DB) error {
	createQuery := `
	CREATE TABLE IF NOT EXISTS sessions (
		chat_id INTEGER PRIMARY KEY,
		language TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'MAIN',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS requests (
		chat_id INTEGER PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(createQuery); err != nil {
		return err
	}

	// Проверяем, существует ли индекс по времени создания запросов
	var indexCount int
	indexQuery := `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_requests_created'`
	if err := db.QueryRow(indexQuery).Scan(&indexCount); err != nil {
		log.Printf("⚠️ Предупреждение: не удалось проверить индекс: %v", err)
	}
	if indexCount == 0 {
		log.Printf("🔄 Добавляю индекс idx_requests_created...")
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at)`); err != nil {
			return fmt.Errorf("ошибка создания индекса: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetSession(chatID int64) (Session, error) {
	var sess Session
	err := s.db.QueryRow(`SELECT language, state FROM sessions WHERE chat_id = ?`, chatID).Scan(&sess.Language, &sess.State)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSession(s.defaultLang), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	if !sess.State.Valid() {
		sess.State = StateMain
	}
	return sess, nil
}

func (s *SQLiteStore) SetState(chatID int64, state State) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (chat_id, language, state, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(chat_id) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		chatID, s.defaultLang, string(state))
	if err != nil {
		return fmt.Errorf("ошибка сохранения состояния: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetLanguage(chatID int64, lang string) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (chat_id, language, state, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(chat_id) DO UPDATE SET language = excluded.language, updated_at = CURRENT_TIMESTAMP`,
		chatID, lang, string(StateMain))
	if err != nil {
		return fmt.Errorf("ошибка сохранения языка: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRequest(chatID int64) (*PendingRequest, error) {
	var r PendingRequest
	var created int64
	err := s.db.QueryRow(`SELECT url, title, kind, created_at FROM requests WHERE chat_id = ?`, chatID).
		Scan(&r.URL, &r.Title, &r.Kind, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения запроса: %w", err)
	}
	r.CreatedAt = time.UnixMilli(created)
	return &r, nil
}

func (s *SQLiteStore) SetRequest(chatID int64, req PendingRequest) error {
	_, err := s.db.Exec(`
		INSERT INTO requests (chat_id, url, title, kind, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET url = excluded.url, title = excluded.title,
			kind = excluded.kind, created_at = excluded.created_at`,
		chatID, req.URL, req.Title, req.Kind, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("ошибка сохранения запроса: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteRequest(chatID int64) error {
	if _, err := s.db.Exec(`DELETE FROM requests WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("ошибка удаления запроса: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TakeRequest(chatID int64) (*PendingRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	var r PendingRequest
	var created int64
	err = tx.QueryRow(`SELECT url, title, kind, created_at FROM requests WHERE chat_id = ?`, chatID).
		Scan(&r.URL, &r.Title, &r.Kind, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения запроса: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM requests WHERE chat_id = ?`, chatID); err != nil {
		return nil, fmt.Errorf("ошибка удаления запроса: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	r.CreatedAt = time.UnixMilli(created)
	return &r, nil
}

func (s *SQLiteStore) CleanupRequests(maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge).UnixMilli()
	res, err := s.db.Exec(`DELETE FROM requests WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки запросов: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close закрывает соединение с БД
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
