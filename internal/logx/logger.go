package logx

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgHiBlack)
	debugColor   = color.New(color.FgHiBlue)
	warnColor    = color.New(color.FgHiYellow)
	errorColor   = color.New(color.FgHiRed)
	storageColor = color.New(color.FgHiMagenta)
	mediaColor   = color.New(color.FgHiCyan)
	botColor     = color.New(color.FgHiGreen)
)

// Init ставит цветной обработчик slog по умолчанию.
// После вызова стандартный log.Printf тоже проходит через него.
func Init(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stdout
	}
	logger := slog.New(NewHandler(w, level))
	slog.SetDefault(logger)
	log.SetFlags(0)
	return logger
}

func Debug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func Warn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func Error(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

// Component пишет строку с тегом подсистемы: [STORAGE], [MEDIA], [BOT]
func Component(name, format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", name))
}

// Handler форматирует записи как "15:04:05 [LEVEL] [COMPONENT] message"
type Handler struct {
	w     io.Writer
	level slog.Leveler
	mu    *sync.Mutex
	attrs []slog.Attr
}

func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var levelStr string
	var levelColor *color.Color
	switch {
	case r.Level >= slog.LevelError:
		levelStr, levelColor = "ERROR", errorColor
	case r.Level >= slog.LevelWarn:
		levelStr, levelColor = "WARN", warnColor
	case r.Level >= slog.LevelInfo:
		levelStr, levelColor = "INFO", infoColor
	default:
		levelStr, levelColor = "DEBUG", debugColor
	}

	component := ""
	var extra []string
	collect := func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
		} else {
			extra = append(extra, a.Key+"="+a.Value.String())
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	msg := r.Message
	if len(extra) > 0 {
		msg += " " + strings.Join(extra, " ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprint(h.w, ts.Format("15:04:05"))
	if component != "" {
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		_, err := fmt.Fprintf(h.w, " %s\n", componentColor(component).Sprintf("[%s] %s", component, msg))
		return err
	}
	_, err := fmt.Fprintf(h.w, " %s\n", levelColor.Sprintf("[%s] %s", levelStr, msg))
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(string) slog.Handler { return h }

func componentColor(name string) *color.Color {
	switch name {
	case "STORAGE":
		return storageColor
	case "MEDIA":
		return mediaColor
	case "BOT":
		return botColor
	default:
		return color.New(color.FgCyan)
	}
}
