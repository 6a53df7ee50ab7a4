package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/config"
	"github.com/fdg312/vitalis/internal/reminders"
	"github.com/fdg312/vitalis/internal/reports"
	"github.com/fdg312/vitalis/internal/storage/memory"
	"github.com/fdg312/vitalis/internal/telemetry"
	"github.com/fdg312/vitalis/internal/tracker"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	ctx := context.Background()
	kv := memory.New()
	clk := clock.NewFixed(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	m := telemetry.New()

	tr, err := tracker.Open(ctx, kv, tracker.Options{
		Clock:        clk,
		IDs:          &clock.Sequence{Prefix: "id"},
		Strict:       true,
		AutoRollover: true,
		Observer:     m,
	})
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	rem, err := reminders.Load(ctx, kv, &clock.Sequence{Prefix: "r"}, nil)
	if err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	rep := reports.NewService(tr, kv, nil, reports.ServiceOptions{Clock: clk})

	cfg.Storage.Mode = config.StorageModeMemory
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
		cfg.JWTIssuer = "vitalis-test"
		cfg.JWTTTLMinutes = 60
	}
	return New(cfg, Deps{Tracker: tr, Reminders: rem, Reports: rep, Metrics: m})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" || resp["storage"] != "memory" {
		t.Errorf("unexpected healthz response: %v", resp)
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRoutesEndToEnd(t *testing.T) {
	srv := newTestServer(t, &config.Config{AuthMode: "none", WaterDefaultAddMl: 300})
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/v1/water", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("water: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/v1/dashboard", nil))
	var d tracker.Dashboard
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if d.Stats.Water != 300 {
		t.Errorf("expected 300 ml, got %d", d.Stats.Water)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/v1/reminders", nil))
	if w.Code != http.StatusOK {
		t.Errorf("reminders: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/v1/reports/today?format=csv", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Water (ml)") {
		t.Errorf("report: unexpected response %d: %s", w.Code, w.Body.String())
	}

	// без blob-хранилища архив недоступен, но маршруты зарегистрированы
	for _, method := range []string{"GET", "DELETE"} {
		path := "/v1/reports/rep-1"
		if method == "GET" {
			path += "/file"
		}
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: expected 503, got %d", method, path, w.Code)
		}
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(w.Body.String(), `vitalis_tracker_events_total{op="add_water"} 1`) {
		t.Errorf("expected add_water counter in metrics output")
	}
}

func TestTokenAuthFlow(t *testing.T) {
	srv := newTestServer(t, &config.Config{AuthMode: "token", PairingCode: "4242"})
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/v1/dashboard", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/v1/auth/pair", bytes.NewBufferString(`{"code":"4242"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("pair: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	json.NewDecoder(w.Body).Decode(&pair)

	req := httptest.NewRequest("GET", "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}
