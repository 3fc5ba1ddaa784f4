// Package health поднимает HTTP эндпоинты проверки и заодно не даёт запустить второй экземпляр бота.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// ErrAlreadyRunning порт проверки занят, значит бот уже запущен
var ErrAlreadyRunning = errors.New("бот уже запущен")

// Check одна проверка готовности
type Check func(ctx context.Context) error

// Server HTTP сервер проверки
type Server struct {
	listener net.Listener
	srv      *http.Server
}

// Listen занимает addr. Ошибка привязки трактуется как второй экземпляр.
func Listen(addr string, handler http.Handler) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w (порт %s занят): %v", ErrAlreadyRunning, addr, err)
	}
	return &Server{
		listener: ln,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Addr фактический адрес (полезно при ":0")
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve блокируется до Shutdown
func (s *Server) Serve() error {
	log.Printf("🩺 Health сервер слушает %s", s.Addr())
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// NewRouter /healthz всегда ok, /readyz прогоняет проверки и показывает статистику
func NewRouter(checks map[string]Check, stats func() map[string]int64) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		code := http.StatusOK
		status := "ready"
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				code = http.StatusServiceUnavailable
				status = "degraded"
				continue
			}
			results[name] = "ok"
		}

		body := map[string]any{"status": status, "checks": results}
		if stats != nil {
			body["downloads"] = stats()
		}
		writeJSON(w, code, body)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Ошибка записи ответа health: %v", err)
	}
}
