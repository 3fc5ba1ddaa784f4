package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tezBot/services"
	"tezBot/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sentMessage struct {
	chatID int64
	text   string
	markup any
}

type sentFile struct {
	kind    services.MediaKind
	path    string
	title   string
	existed bool
}

type fakeMessenger struct {
	mutex    sync.Mutex
	nextID   int
	messages []sentMessage
	edits    []string
	deleted  []int
	answers  []string
	actions  []string
	files    []sentFile
	fetch    func(fileID string) ([]byte, error)
	panicOn  string
}

func (f *fakeMessenger) SendText(chatID int64, text string, markup any) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.panicOn != "" && strings.Contains(text, f.panicOn) {
		panic("messenger exploded")
	}
	f.nextID++
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, markup: markup})
	return f.nextID, nil
}

func (f *fakeMessenger) EditText(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeMessenger) DeleteMessage(chatID int64, messageID int) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) AnswerCallback(callbackID, text string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeMessenger) SendChatAction(chatID int64, action string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeMessenger) SendFile(chatID int64, kind services.MediaKind, path, title, caption string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_, err := os.Stat(path)
	f.files = append(f.files, sentFile{kind: kind, path: path, title: title, existed: err == nil})
	return nil
}

func (f *fakeMessenger) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	if f.fetch == nil {
		return nil, errors.New("no file")
	}
	return f.fetch(fileID)
}

func (f *fakeMessenger) last() sentMessage {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if len(f.messages) == 0 {
		return sentMessage{}
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeMessenger) texts() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.text
	}
	return out
}

func (f *fakeMessenger) sentText(text string) bool {
	for _, t := range f.texts() {
		if t == text {
			return true
		}
	}
	return false
}

type fakeDownloader struct {
	mutex   sync.Mutex
	dir     string
	size    int
	err     error
	calls   []services.DownloadRequest
	created []string
}

func (d *fakeDownloader) DownloadDir() string { return d.dir }

func (d *fakeDownloader) Download(ctx context.Context, req services.DownloadRequest) (string, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.calls = append(d.calls, req)
	if d.err != nil {
		return "", d.err
	}
	ext := "mp4"
	if req.Kind == services.KindAudio {
		ext = req.AudioFormat
	}
	path := strings.Replace(req.OutputTemplate, "%(ext)s", ext, 1)
	if err := os.WriteFile(path, make([]byte, d.size), 0o644); err != nil {
		return "", err
	}
	d.created = append(d.created, path)
	return path, nil
}

func (d *fakeDownloader) count() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.calls)
}

type fakeResolver struct {
	mutex    sync.Mutex
	results  map[string]*services.SearchResult
	info     *services.MediaInfo
	infoErr  error
	titles   map[string]string
	searches []string
}

func (r *fakeResolver) Search(ctx context.Context, query string, limit int) (*services.SearchResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.searches = append(r.searches, query)
	if res, ok := r.results[query]; ok {
		return res, nil
	}
	return &services.SearchResult{Query: query}, nil
}

func (r *fakeResolver) Title(ctx context.Context, url string) (string, bool) {
	t, ok := r.titles[url]
	return t, ok
}

func (r *fakeResolver) Info(ctx context.Context, url string) (*services.MediaInfo, error) {
	if r.infoErr != nil {
		return nil, r.infoErr
	}
	if r.info == nil {
		return nil, errors.New("no info")
	}
	info := *r.info
	info.URL = url
	return &info, nil
}

type fakeRecognizer struct {
	track *services.Track
	got   []byte
}

func (r *fakeRecognizer) Recognize(ctx context.Context, audio []byte) *services.Track {
	r.got = audio
	return r.track
}

type harness struct {
	bot        *Bot
	msg        *fakeMessenger
	store      *storage.MemoryStore
	media      *fakeDownloader
	resolver   *fakeResolver
	recognizer *fakeRecognizer
	moderator  *services.Moderator
}

const (
	testChat  int64 = 100
	testAdmin int64 = 1
)

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		msg:        &fakeMessenger{},
		store:      storage.NewMemoryStore("en"),
		media:      &fakeDownloader{dir: t.TempDir(), size: 16},
		resolver:   &fakeResolver{results: map[string]*services.SearchResult{}, titles: map[string]string{}},
		recognizer: &fakeRecognizer{},
		moderator:  services.NewModerator(services.DefaultBannedKeywords, 3),
	}
	h.bot = NewBot(Deps{
		Messenger:  h.msg,
		Sessions:   h.store,
		Requests:   h.store,
		Media:      h.media,
		Resolver:   h.resolver,
		Recognizer: h.recognizer,
		Moderator:  h.moderator,
		Slots:      services.NewDownloadSlots(2),
	}, Options{
		AdminID:         testAdmin,
		MaxUploadBytes:  1024,
		SearchLimit:     5,
		DefaultLanguage: "en",
		RequestMaxAge:   time.Hour,
	})
	return h
}

func (h *harness) text(text string) {
	h.bot.Handle(context.Background(), Event{Kind: EventText, ChatID: testChat, UserID: testChat, Text: text})
}

func (h *harness) command(cmd, args string, from int64) {
	h.bot.Handle(context.Background(), Event{Kind: EventCommand, ChatID: from, UserID: from, Command: cmd, Text: args})
}

func (h *harness) callback(data string) {
	h.bot.Handle(context.Background(), Event{Kind: EventCallback, ChatID: testChat, UserID: testChat, MessageID: 42, CallbackID: "cb", Data: data})
}

func (h *harness) state(t *testing.T) storage.State {
	t.Helper()
	sess, err := h.store.GetSession(testChat)
	if err != nil {
		t.Fatal(err)
	}
	return sess.State
}

func (h *harness) setState(t *testing.T, s storage.State) {
	t.Helper()
	if err := h.store.SetState(testChat, s); err != nil {
		t.Fatal(err)
	}
}

// inlineData собирает все callback_data inline клавиатуры
func inlineData(markup any) []string {
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out
}
