package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Fatalf("body = %s (%v)", rec.Body.String(), err)
	}
}

func TestReadyzReportsFailingChecks(t *testing.T) {
	checks := map[string]Check{
		"ytdlp":   func(context.Context) error { return nil },
		"network": func(context.Context) error { return errors.New("unreachable") },
	}
	stats := func() map[string]int64 { return map[string]int64{"slots": 4, "active": 1} }

	rec := httptest.NewRecorder()
	NewRouter(checks, stats).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status    string            `json:"status"`
		Checks    map[string]string `json:"checks"`
		Downloads map[string]int64  `json:"downloads"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "degraded" || body.Checks["ytdlp"] != "ok" || body.Checks["network"] != "unreachable" {
		t.Fatalf("body = %+v", body)
	}
	if body.Downloads["slots"] != 4 {
		t.Fatalf("downloads = %v", body.Downloads)
	}
}

func TestSecondListenerIsRejected(t *testing.T) {
	first, err := Listen("127.0.0.1:0", NewRouter(nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	go first.Serve()
	defer first.Shutdown(context.Background())

	resp, err := http.Get("http://" + first.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	if _, err := Listen(first.Addr(), NewRouter(nil, nil)); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Listen err = %v, want ErrAlreadyRunning", err)
	}
}
