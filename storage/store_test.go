package storage

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	jsonStore, err := NewJSONStore(t.TempDir(), "uz", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	sqliteStore, err := NewSQLiteStore(t.TempDir(), "uz")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	stores := map[string]Store{
		"memory": NewMemoryStore("uz"),
		"json":   jsonStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestSessionDefaultsAndUpdates(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess, err := s.GetSession(42)
			if err != nil {
				t.Fatal(err)
			}
			if sess.State != StateMain || sess.Language != "uz" {
				t.Fatalf("default session = %+v", sess)
			}

			if err := s.SetState(42, StateAwaitingVideoLink); err != nil {
				t.Fatal(err)
			}
			if err := s.SetLanguage(42, "ru"); err != nil {
				t.Fatal(err)
			}
			sess, _ = s.GetSession(42)
			if sess.State != StateAwaitingVideoLink || sess.Language != "ru" {
				t.Fatalf("session = %+v", sess)
			}

			other, _ := s.GetSession(7)
			if other.State != StateMain {
				t.Fatalf("chats must be independent, got %+v", other)
			}
		})
	}
}

func TestRequestOneShot(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SetRequest(1, PendingRequest{URL: "https://youtu.be/a", Title: "A", Kind: "video"}); err != nil {
				t.Fatal(err)
			}
			if err := s.SetRequest(1, PendingRequest{URL: "https://youtu.be/b", Title: "B", Kind: "audio"}); err != nil {
				t.Fatal(err)
			}

			got, err := s.GetRequest(1)
			if err != nil || got == nil || got.Title != "B" || got.CreatedAt.IsZero() {
				t.Fatalf("GetRequest = %+v, %v (last write wins)", got, err)
			}

			taken, err := s.TakeRequest(1)
			if err != nil || taken == nil || taken.URL != "https://youtu.be/b" {
				t.Fatalf("TakeRequest = %+v, %v", taken, err)
			}
			again, err := s.TakeRequest(1)
			if err != nil || again != nil {
				t.Fatalf("second TakeRequest = %+v, %v; want nil", again, err)
			}
		})
	}
}

func TestCleanupRequests(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s.SetRequest(5, PendingRequest{URL: "u", Title: "t", Kind: "audio"})
			if n, err := s.CleanupRequests(time.Hour); err != nil || n != 0 {
				t.Fatalf("fresh cleanup = %d, %v", n, err)
			}
			time.Sleep(5 * time.Millisecond)
			if n, err := s.CleanupRequests(time.Millisecond); err != nil || n != 1 {
				t.Fatalf("stale cleanup = %d, %v", n, err)
			}
			if r, _ := s.GetRequest(5); r != nil {
				t.Fatalf("request survived cleanup: %+v", r)
			}
			if err := s.DeleteRequest(5); err != nil {
				t.Fatalf("DeleteRequest on missing: %v", err)
			}
		})
	}
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, "uz", 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	s.SetLanguage(10, "en")
	s.SetState(10, StateAwaitingSearchText)
	s.SetRequest(10, PendingRequest{URL: "u", Title: "t", Kind: "video"})

	reopened, err := NewJSONStore(dir, "uz", 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sess, _ := reopened.GetSession(10)
	if sess.Language != "en" || sess.State != StateAwaitingSearchText {
		t.Fatalf("session after reopen = %+v", sess)
	}
	if r, _ := reopened.GetRequest(10); r == nil || r.Kind != "video" {
		t.Fatalf("request after reopen = %+v", r)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "db.json"))
	if !strings.Contains(string(data), `"lang": "en"`) {
		t.Fatalf("unexpected document: %s", data)
	}
}

func TestJSONStoreMovesCorruptedFileAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStore(dir, "uz", time.Hour)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if sess, _ := s.GetSession(1); sess.State != StateMain {
		t.Fatalf("fresh session expected, got %+v", sess)
	}

	backups, _ := filepath.Glob(path + ".bak.*")
	if len(backups) != 1 {
		t.Fatalf("backups = %v, want exactly one", backups)
	}
	old, _ := os.ReadFile(backups[0])
	if string(old) != "{not json" {
		t.Fatalf("backup content changed: %q", old)
	}
}

func TestJSONStoreDropsStaleRequestsOnLoad(t *testing.T) {
	dir := t.TempDir()
	stale := time.Now().Add(-48 * time.Hour).UnixMilli()
	doc := `{"users":{"3":{"lang":"ru","state":"BOGUS"}},"requests":{"3":{"url":"u","title":"t","type":"audio","timestamp":` +
		strconv.FormatInt(stale, 10) + `}}}`
	if err := os.WriteFile(filepath.Join(dir, "db.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStore(dir, "uz", 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := s.GetRequest(3); r != nil {
		t.Fatalf("stale request loaded: %+v", r)
	}
	if sess, _ := s.GetSession(3); sess.Language != "ru" || sess.State != StateMain {
		t.Fatalf("session = %+v, unknown state must fall back to MAIN", sess)
	}
}

func TestOpenBackends(t *testing.T) {
	if _, err := Open("redis", t.TempDir(), "uz", time.Hour); err == nil {
		t.Fatal("unknown backend must fail")
	}
	s, err := Open("memory", "", "en", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if sess, _ := s.GetSession(1); sess.Language != "en" {
		t.Fatalf("language = %q", sess.Language)
	}
}
