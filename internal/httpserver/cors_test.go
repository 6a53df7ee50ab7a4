package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/vitalis/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"http://localhost:5173/"},
		CORSAllowCredentials: true,
	}
	handler := CORSMiddleware(cfg, okHandler())

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantOrigin  string
		wantMethods bool
	}{
		{"PreflightAllowed", http.MethodOptions, "http://localhost:5173", true, http.StatusNoContent, "http://localhost:5173", true},
		{"PreflightDisallowed", http.MethodOptions, "https://evil.example.com", true, http.StatusNoContent, "", false},
		{"SimpleAllowed", http.MethodGet, "http://localhost:5173", false, http.StatusOK, "http://localhost:5173", false},
		{"SimpleDisallowed", http.MethodGet, "https://evil.example.com", false, http.StatusOK, "", false},
		{"NoOrigin", http.MethodGet, "", false, http.StatusOK, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/dashboard", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", "PATCH")
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("expected Allow-Origin=%q, got %q", tc.wantOrigin, got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); (got != "") != tc.wantMethods {
				t.Errorf("unexpected Allow-Methods %q", got)
			}
			if tc.wantOrigin != "" && rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("expected Allow-Credentials=true")
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}
	handler := CORSMiddleware(cfg, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/today", nil)
	req.Header.Set("Origin", "http://192.168.1.20:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://192.168.1.20:3000" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Errorf("expected Content-Disposition exposed, got %q", got)
	}
}
