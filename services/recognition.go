package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Track распознанный трек
type Track struct {
	Title  string
	Artist string
	Album  string
	Year   string
}

// Query строка для поиска трека ("исполнитель - название")
func (t *Track) Query() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// RecognitionService отправляет фрагмент аудио в сервис распознавания
type RecognitionService struct {
	endpoint string
	token    string
	timeout  time.Duration
	maxBytes int
	client   *http.Client
}

// NewRecognitionService создает сервис распознавания
func NewRecognitionService(endpoint, token string, timeout time.Duration, maxBytes int, client *http.Client) *RecognitionService {
	if client == nil {
		client = &http.Client{}
	}
	if maxBytes <= 0 {
		maxBytes = 2 * 1024 * 1024
	}
	return &RecognitionService{
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
		maxBytes: maxBytes,
		client:   client,
	}
}

type recognitionResponse struct {
	Status string `json:"status"`
	Result *struct {
		Artist      string `json:"artist"`
		Title       string `json:"title"`
		Album       string `json:"album"`
		ReleaseDate string `json:"release_date"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_message"`
	} `json:"error"`
}

// Recognize возвращает трек или nil. Ошибки сервиса и таймаут не пробрасываются:
// "не распознано" для вызывающего кода обычный исход.
func (s *RecognitionService) Recognize(ctx context.Context, audio []byte) *Track {
	if len(audio) == 0 {
		return nil
	}
	if len(audio) > s.maxBytes {
		audio = audio[:s.maxBytes]
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	track, err := s.recognize(ctx, audio)
	if err != nil {
		log.Printf("⚠️ Распознавание не удалось: %v", err)
		return nil
	}
	if track != nil {
		log.Printf("🎵 Распознано: %s - %s", track.Artist, track.Title)
	}
	return track
}

func (s *RecognitionService) recognize(ctx context.Context, audio []byte) (*Track, error) {
	var requestBody bytes.Buffer
	multipartWriter := multipart.NewWriter(&requestBody)

	if err := multipartWriter.WriteField("api_token", s.token); err != nil {
		return nil, fmt.Errorf("failed to write api_token field: %w", err)
	}
	fileWriter, err := multipartWriter.CreateFormFile("file", "sample.ogg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fileWriter.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to copy audio to multipart writer: %w", err)
	}
	if err := multipartWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", multipartWriter.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed recognitionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bad JSON: %w", err)
	}
	if parsed.Status != "success" {
		if parsed.Error != nil {
			return nil, fmt.Errorf("service error %d: %s", parsed.Error.Code, parsed.Error.Message)
		}
		return nil, fmt.Errorf("service status %q", parsed.Status)
	}
	if parsed.Result == nil || parsed.Result.Title == "" {
		return nil, nil
	}

	year := parsed.Result.ReleaseDate
	if len(year) >= 4 {
		year = year[:4]
	}
	return &Track{
		Title:  parsed.Result.Title,
		Artist: parsed.Result.Artist,
		Album:  parsed.Result.Album,
		Year:   year,
	}, nil
}
