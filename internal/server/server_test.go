package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

func TestCORS(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/bid", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}
}

func TestHealthz(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]struct {
		Status string `json:"status"`
	}
	json.NewDecoder(w.Body).Decode(&body)
	if body["auctions"].Status != "ok" {
		t.Errorf("auctions status = %q", body["auctions"].Status)
	}
}

func TestHandleOpenAPI(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/openapi.json", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); !strings.Contains(got, "application/json") {
		t.Fatalf("content-type = %q, want application/json", got)
	}

	body := w.Body.String()
	for _, path := range []string{"/healthz", "/api/state", "/api/start_round", "/api/bid", "/new_task", "/bid", "/results", "/leaderboard"} {
		if !strings.Contains(body, `"`+path+`"`) {
			t.Errorf("body missing %s path", path)
		}
	}
}

func TestSwaggerUI(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/docs/", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "/openapi.json") {
		t.Fatalf("body missing /openapi.json")
	}
}

func TestWebUI(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>auction</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	r := newRouter(discardLogger(), newTestService(clock), dir)

	tests := []struct {
		method, path string
		wantCode     int
		wantBody     string
	}{
		{http.MethodGet, "/app.js", http.StatusOK, "console.log(1)"},
		{http.MethodGet, "/round/view", http.StatusOK, "<h1>auction</h1>"},
		{http.MethodPost, "/nowhere", http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		w := doJSON(t, r, tt.method, tt.path, nil)
		if w.Code != tt.wantCode || !strings.Contains(w.Body.String(), tt.wantBody) {
			t.Errorf("%s %s: got %d %q", tt.method, tt.path, w.Code, w.Body.String())
		}
	}

	if w := doJSON(t, r, http.MethodGet, "/api/state", nil); w.Code != http.StatusOK {
		t.Errorf("api routes shadowed by web ui: %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{taskauction.ErrNotFound, http.StatusNotFound},
		{taskauction.ErrNotAllowed, http.StatusForbidden},
		{taskauction.ErrConflict, http.StatusConflict},
		{taskauction.ErrAlreadyBid, http.StatusBadRequest},
		{fmt.Errorf("starting round: %w", taskauction.ErrDuplicateName), http.StatusBadRequest},
		{fmt.Errorf("%w (%d)", taskauction.ErrInsufficientPoints, 3), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}

	if msg := errorMessage(errors.New("disk on fire")); msg != "internal error" {
		t.Errorf("errorMessage leaked %q", msg)
	}
}
