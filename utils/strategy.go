package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Strategy одна именованная попытка получить результат
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// AttemptError описывает неудачу одной стратегии
type AttemptError struct {
	Strategy string
	Err      error
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e AttemptError) Unwrap() error { return e.Err }

// AllFailedError возвращается, когда ни одна стратегия не сработала
type AllFailedError struct {
	Attempts []AttemptError
}

func (e *AllFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "все стратегии исчерпаны: нет попыток"
	}
	return fmt.Sprintf("все стратегии исчерпаны (%d), последняя: %v", len(e.Attempts), e.Attempts[len(e.Attempts)-1])
}

// Unwrap возвращает ошибку последней попытки
func (e *AllFailedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// FirstSuccess пробует стратегии по порядку и возвращает первый успешный результат.
// timeout > 0 ограничивает каждую попытку отдельно. Отмена родительского контекста
// прекращает перебор.
func FirstSuccess[T any](ctx context.Context, timeout time.Duration, strategies ...Strategy[T]) (T, error) {
	var zero T
	failed := &AllFailedError{}

	for i, s := range strategies {
		if err := ctx.Err(); err != nil {
			failed.Attempts = append(failed.Attempts, AttemptError{Strategy: s.Name, Err: err})
			return zero, failed
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		result, err := s.Run(attemptCtx)
		cancel()

		if err == nil {
			if i > 0 {
				log.Printf("✅ Стратегия %q сработала (попытка %d/%d)", s.Name, i+1, len(strategies))
			}
			return result, nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("таймаут %v: %w", timeout, err)
		}
		log.Printf("⚠️ Стратегия %q неудачна (%d/%d): %v", s.Name, i+1, len(strategies), err)
		failed.Attempts = append(failed.Attempts, AttemptError{Strategy: s.Name, Err: err})
	}

	return zero, failed
}
