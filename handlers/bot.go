package handlers

import (
	"context"
	"html"
	"log"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"tezBot/i18n"
	"tezBot/services"
	"tezBot/storage"
)

// Downloader производит файл по запросу (services.MediaService)
type Downloader interface {
	Download(ctx context.Context, req services.DownloadRequest) (string, error)
	DownloadDir() string
}

// Resolver поиск и метаданные (services.Resolver)
type Resolver interface {
	Search(ctx context.Context, query string, limit int) (*services.SearchResult, error)
	Title(ctx context.Context, url string) (string, bool)
	Info(ctx context.Context, url string) (*services.MediaInfo, error)
}

// Recognizer распознаёт музыку; nil означает «не найдено»
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte) *services.Track
}

// Moderator проверки контента и счётчик нарушений (services.Moderator)
type Moderator interface {
	CheckText(text string) services.Verdict
	CheckMetadata(info *services.MediaInfo) services.Verdict
	AddStrike(userID int64) services.StrikeRecord
	IsBlocked(userID int64) bool
	Limit() int
	Reset(userID int64)
}

// Slots глобальный лимит одновременных загрузок
type Slots interface {
	Acquire(ctx context.Context) (func(), error)
}

// Deps зависимости автомата
type Deps struct {
	Messenger  Messenger
	Sessions   storage.SessionStore
	Requests   storage.RequestStore
	Media      Downloader
	Resolver   Resolver
	Recognizer Recognizer
	Moderator  Moderator
	Slots      Slots
	Detector   *services.PlatformDetector
	Flood      *FloodGuard
}

// Options настройки поведения
type Options struct {
	AdminID          int64
	MaxUploadBytes   int64
	SearchLimit      int
	ActivityInterval time.Duration
	DefaultLanguage  string
	// RequestMaxAge отложенный запрос старше этого считается устаревшим
	RequestMaxAge time.Duration
}

// Bot автомат диалога: по состоянию сессии решает, что делать с событием
type Bot struct {
	msg        Messenger
	sessions   storage.SessionStore
	requests   storage.RequestStore
	media      Downloader
	resolver   Resolver
	recognizer Recognizer
	moderator  Moderator
	slots      Slots
	detector   *services.PlatformDetector
	flood      *FloodGuard
	opts       Options
	now        func() time.Time
}

// NewBot собирает автомат
func NewBot(deps Deps, opts Options) *Bot {
	if opts.SearchLimit < 1 {
		opts.SearchLimit = 5
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = i18n.DefaultLanguage
	}
	detector := deps.Detector
	if detector == nil {
		detector = services.NewPlatformDetector()
	}
	return &Bot{
		msg:        deps.Messenger,
		sessions:   deps.Sessions,
		requests:   deps.Requests,
		media:      deps.Media,
		resolver:   deps.Resolver,
		recognizer: deps.Recognizer,
		moderator:  deps.Moderator,
		slots:      deps.Slots,
		detector:   detector,
		flood:      deps.Flood,
		opts:       opts,
		now:        time.Now,
	}
}

// Handle обрабатывает одно событие. Паника логируется и не выходит наружу.
func (b *Bot) Handle(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Паника при обработке %s в чате %d: %v\n%s", ev.Kind, ev.ChatID, r, debug.Stack())
		}
	}()

	if !b.flood.Allow(ev.ChatID) {
		log.Printf("⚠️ Флуд от чата %d, событие %s отброшено", ev.ChatID, ev.Kind)
		if ev.Kind == EventCallback {
			b.answer(ev, "")
		}
		return
	}

	sess, err := b.sessions.GetSession(ev.ChatID)
	if err != nil {
		log.Printf("❌ Ошибка чтения сессии %d: %v", ev.ChatID, err)
		sess = storage.Session{Language: b.opts.DefaultLanguage, State: storage.StateMain}
	}

	// Администратор не проходит через блокировку
	if ev.Kind == EventCommand && ev.Command == "unblock" {
		b.handleUnblock(ev, sess.Language)
		return
	}

	if b.moderator.IsBlocked(ev.UserID) {
		if ev.Kind == EventCallback {
			b.answer(ev, "")
		}
		b.send(ev.ChatID, i18n.Text(sess.Language, "user_blocked"), nil)
		return
	}

	switch ev.Kind {
	case EventCommand:
		b.handleCommand(ev, sess)
	case EventText:
		b.handleText(ctx, ev, sess)
	case EventCallback:
		b.handleCallback(ctx, ev, sess)
	case EventAudio:
		b.handleAudio(ctx, ev, sess.Language)
	}
}

func (b *Bot) handleCommand(ev Event, sess storage.Session) {
	lang := sess.Language
	switch ev.Command {
	case "start":
		b.setState(ev.ChatID, storage.StateMain)
		b.send(ev.ChatID, i18n.Text(lang, "welcome"), mainMenuKeyboard(lang))
	case "home", "menu":
		b.goHome(ev.ChatID, lang)
	case "lang":
		b.send(ev.ChatID, i18n.Text(lang, "choose_lang"), languageKeyboard())
	case "help":
		b.send(ev.ChatID, i18n.Text(lang, "help"), nil)
	default:
		log.Printf("🔍 Неизвестная команда /%s от чата %d", ev.Command, ev.ChatID)
	}
}

// handleUnblock /unblock <id>. Не администратору бот ничего не отвечает.
func (b *Bot) handleUnblock(ev Event, lang string) {
	if b.opts.AdminID == 0 || ev.UserID != b.opts.AdminID {
		log.Printf("⚠️ /unblock от %d без прав, игнорирую", ev.UserID)
		return
	}
	target, err := strconv.ParseInt(strings.TrimSpace(ev.Text), 10, 64)
	if err != nil {
		b.send(ev.ChatID, "/unblock &lt;id&gt;", nil)
		return
	}
	b.moderator.Reset(target)
	log.Printf("✅ Пользователь %d разблокирован администратором", target)
	b.send(ev.ChatID, i18n.Format(lang, "unblocked", "id", strconv.FormatInt(target, 10)), nil)
}

func (b *Bot) handleText(ctx context.Context, ev Event, sess storage.Session) {
	lang := sess.Language
	text := strings.TrimSpace(ev.Text)

	switch {
	case i18n.MatchLabel(text, "menu_back"):
		b.goHome(ev.ChatID, lang)
		return
	case i18n.MatchLabel(text, "menu_music"):
		b.setState(ev.ChatID, storage.StateAwaitingSearchText)
		b.send(ev.ChatID, i18n.Text(lang, "prompt_music"), backKeyboard(lang))
		return
	case i18n.MatchLabel(text, "menu_video"):
		b.setState(ev.ChatID, storage.StateAwaitingVideoLink)
		b.send(ev.ChatID, i18n.Text(lang, "prompt_video"), backKeyboard(lang))
		return
	case i18n.MatchLabel(text, "menu_audio"):
		b.setState(ev.ChatID, storage.StateAwaitingAudioLink)
		b.send(ev.ChatID, i18n.Text(lang, "prompt_audio"), backKeyboard(lang))
		return
	case i18n.MatchLabel(text, "menu_help"):
		b.send(ev.ChatID, i18n.Text(lang, "help"), nil)
		return
	case i18n.MatchLabel(text, "menu_lang"):
		b.send(ev.ChatID, i18n.Text(lang, "choose_lang"), languageKeyboard())
		return
	}

	switch sess.State {
	case storage.StateAwaitingSearchText:
		b.runSearch(ctx, ev, lang, text)
	case storage.StateAwaitingVideoLink:
		b.handleLink(ctx, ev, lang, text, services.KindVideo)
	case storage.StateAwaitingAudioLink:
		b.handleLink(ctx, ev, lang, text, services.KindAudio)
	default:
		// В главном меню ссылка сразу считается запросом на видео
		if _, ok := b.detector.ExtractURL(text); ok {
			b.handleLink(ctx, ev, lang, text, services.KindVideo)
			return
		}
		b.send(ev.ChatID, i18n.Text(lang, "main_menu"), mainMenuKeyboard(lang))
	}
}

func (b *Bot) handleCallback(ctx context.Context, ev Event, sess storage.Session) {
	lang := sess.Language
	data := ev.Data

	switch {
	case data == cbHome:
		b.answer(ev, "")
		b.goHome(ev.ChatID, lang)
	case data == cbAgain:
		b.answer(ev, "")
		b.setState(ev.ChatID, storage.StateAwaitingSearchText)
		b.send(ev.ChatID, i18n.Text(lang, "prompt_music"), backKeyboard(lang))
	case strings.HasPrefix(data, cbLang):
		b.handleLanguage(ev, strings.TrimPrefix(data, cbLang), lang)
	case strings.HasPrefix(data, cbSelect):
		b.handleSelection(ctx, ev, lang, strings.TrimPrefix(data, cbSelect))
	case strings.HasPrefix(data, cbDownload):
		b.answer(ev, "")
		b.setState(ev.ChatID, storage.StateAwaitingSearchText)
		b.runSearch(ctx, ev, lang, strings.TrimPrefix(data, cbDownload))
	case data == cbAudio || data == cbAudioM4A || strings.HasPrefix(data, cbVideo):
		b.handleFormatChoice(ctx, ev, lang, data)
	default:
		log.Printf("⚠️ Неизвестный callback %q от чата %d", data, ev.ChatID)
		b.answer(ev, i18n.Text(lang, "expired"))
	}
}

func (b *Bot) handleLanguage(ev Event, code, lang string) {
	if !i18n.Supported(code) {
		b.answer(ev, i18n.Text(lang, "expired"))
		return
	}
	if err := b.sessions.SetLanguage(ev.ChatID, code); err != nil {
		log.Printf("❌ Ошибка сохранения языка чата %d: %v", ev.ChatID, err)
		b.answer(ev, i18n.Text(lang, "error"))
		return
	}
	b.answer(ev, i18n.Text(code, "lang_changed"))
	b.deleteMessage(ev.ChatID, ev.MessageID)
	b.goHome(ev.ChatID, code)
}

// goHome возвращает чат в MAIN из любого состояния
func (b *Bot) goHome(chatID int64, lang string) {
	b.setState(chatID, storage.StateMain)
	b.send(chatID, i18n.Text(lang, "main_menu"), mainMenuKeyboard(lang))
}

// strike фиксирует нарушение и предупреждает пользователя
func (b *Bot) strike(ev Event, lang string, verdict services.Verdict) {
	rec := b.moderator.AddStrike(ev.UserID)
	log.Printf("🚫 Нарушение от %d (%s %q): %d/%d", ev.UserID, verdict.Reason, verdict.Keyword, rec.Count, b.moderator.Limit())
	if rec.Blocked {
		b.send(ev.ChatID, i18n.Text(lang, "user_blocked"), nil)
		return
	}
	text := i18n.Text(lang, "warning_adult") + "\n\n" +
		i18n.Format(lang, "warning_strike", "count", strconv.Itoa(rec.Count), "limit", strconv.Itoa(b.moderator.Limit()))
	b.send(ev.ChatID, text, nil)
}

func (b *Bot) setState(chatID int64, state storage.State) {
	if err := b.sessions.SetState(chatID, state); err != nil {
		log.Printf("❌ Ошибка сохранения состояния чата %d: %v", chatID, err)
	}
}

// send отправляет сообщение; ошибка только логируется. Возвращает id сообщения или 0.
func (b *Bot) send(chatID int64, text string, markup any) int {
	id, err := b.msg.SendText(chatID, text, markup)
	if err != nil {
		log.Printf("❌ Не удалось отправить сообщение в чат %d: %v", chatID, err)
		return 0
	}
	return id
}

func (b *Bot) answer(ev Event, text string) {
	if ev.CallbackID == "" {
		return
	}
	if err := b.msg.AnswerCallback(ev.CallbackID, text); err != nil {
		log.Printf("⚠️ Не удалось ответить на callback: %v", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := b.msg.DeleteMessage(chatID, messageID); err != nil {
		log.Printf("⚠️ Не удалось удалить сообщение %d: %v", messageID, err)
	}
}

// escape экранирует пользовательские строки для HTML-сообщений
func escape(s string) string {
	return html.EscapeString(s)
}
