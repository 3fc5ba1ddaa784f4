package netx

import (
	"context"
	"fmt"
	"log"
	"net/http"
)

// CheckNetwork проверяет, что target отвечает через переданный клиент (с прокси, если он включен)
func CheckNetwork(ctx context.Context, client *http.Client, target string) error {
	log.Printf("🌐 Проверяю сетевое подключение к %s...", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("некорректный адрес проверки: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("⚠️ %s недоступен: %v", target, err)
		return fmt.Errorf("проблемы с сетевым подключением к %s: %w", target, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s ответил статусом %d", target, resp.StatusCode)
	}
	log.Printf("✅ Сетевое подключение к %s работает", target)
	return nil
}
