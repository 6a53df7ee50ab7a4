package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/vitalis/internal/clock"
	"github.com/fdg312/vitalis/internal/storage/memory"
)

func setupTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	service, err := Load(context.Background(), memory.New(), &clock.Sequence{Prefix: "r"}, nil)
	if err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	h := NewHandlers(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/reminders", h.HandleList)
	mux.HandleFunc("POST /v1/reminders", h.HandleUpsert)
	mux.HandleFunc("PATCH /v1/reminders/{id}", h.HandlePatch)
	mux.HandleFunc("DELETE /v1/reminders/{id}", h.HandleDelete)
	return mux
}

func serve(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRemindersHandlers(t *testing.T) {
	mux := setupTestMux(t)

	t.Run("ListDefaults", func(t *testing.T) {
		w := serve(mux, "GET", "/v1/reminders", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp RemindersResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Reminders) != 4 {
			t.Fatalf("expected 4 reminders, got %d", len(resp.Reminders))
		}
	})

	t.Run("CreateReminder", func(t *testing.T) {
		w := serve(mux, "POST", "/v1/reminders", `{"time":"7:05","label":"Stretch","type":"steps"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var r Reminder
		json.NewDecoder(w.Body).Decode(&r)
		if r.ID != "r-1" || r.Time != "07:05" || !r.Enabled {
			t.Fatalf("unexpected reminder: %+v", r)
		}
	})

	t.Run("InvalidTime", func(t *testing.T) {
		w := serve(mux, "POST", "/v1/reminders", `{"time":"25:00","label":"x","type":"water"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("ToggleAndSet", func(t *testing.T) {
		w := serve(mux, "PATCH", "/v1/reminders/1", "")
		var r Reminder
		json.NewDecoder(w.Body).Decode(&r)
		if w.Code != http.StatusOK || r.Enabled {
			t.Fatalf("expected reminder 1 disabled, got %d %+v", w.Code, r)
		}

		w = serve(mux, "PATCH", "/v1/reminders/1", `{"enabled":true}`)
		json.NewDecoder(w.Body).Decode(&r)
		if !r.Enabled {
			t.Fatalf("expected reminder 1 enabled, got %+v", r)
		}
	})

	t.Run("DeleteAndNotFound", func(t *testing.T) {
		w := serve(mux, "DELETE", "/v1/reminders/2", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		w = serve(mux, "DELETE", "/v1/reminders/2", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		w = serve(mux, "PATCH", "/v1/reminders/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
