package utils

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

const maxFilenameLength = 100

// SanitizeFilename превращает заголовок в безопасную основу имени файла:
// любые серии символов вне [A-Za-z0-9] заменяются на "_", длина ограничена 100.
func SanitizeFilename(filename string) string {
	result := unsafeFilenameChars.ReplaceAllString(filename, "_")
	result = strings.Trim(result, "_")
	if len(result) > maxFilenameLength {
		result = strings.TrimRight(result[:maxFilenameLength], "_")
	}
	if result == "" {
		return "media"
	}
	return result
}

// Truncate обрезает строку до max рун, не разрывая UTF-8 последовательности
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// TruncateBytes обрезает строку до max байт по границе руны
func TruncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TailBytes оставляет последние max байт строки, начиная с границы руны
func TailBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	start := len(s) - max
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// RetryWithBackoff выполняет функцию с повторными попытками и экспоненциальной задержкой.
// Ожидание прерывается отменой контекста.
func RetryWithBackoff(ctx context.Context, operation func() error, maxRetries int, baseDelay time.Duration) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Экспоненциальная задержка: 1s, 2s, 4s, 8s, 16s
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			log.Printf("🔄 Попытка %d/%d через %v...", attempt+1, maxRetries+1, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := operation()
		if err == nil {
			if attempt > 0 {
				log.Printf("✅ Операция успешна после %d попыток", attempt+1)
			}
			return nil
		}

		lastErr = err
		log.Printf("❌ Попытка %d/%d неудачна: %v", attempt+1, maxRetries+1, err)
	}

	log.Printf("💥 Все %d попыток исчерпаны", maxRetries+1)
	return lastErr
}
