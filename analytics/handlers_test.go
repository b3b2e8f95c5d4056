package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

func newTestHandler(t *testing.T) (*Handler, *Store) {
	t.Helper()
	s := setupTestStore(t)
	h := NewHandler(s, "caraciolo.dev")
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(h.Close)
	return h, s
}

func collect(h *Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/collect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", firefoxUA)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	_ = h.Collect(e.NewContext(req, rec))
	return rec
}

func countViews(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM views`).Scan(&n); err != nil {
		t.Fatalf("count views: %v", err)
	}
	return n
}

func TestCollectStoresView(t *testing.T) {
	h, s := newTestHandler(t)

	rec := collect(h, `{"path":"/blog/pt/first/","referrer":"https://www.google.com/"}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	stats, err := s.GetStats(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalViews != 1 {
		t.Fatalf("TotalViews = %d, want 1", stats.TotalViews)
	}
	if stats.Referrers[0].Name != "Google" || stats.Browsers[0].Name != "Firefox" {
		t.Errorf("unexpected dimensions: %+v %+v", stats.Referrers, stats.Browsers)
	}
}

func TestCollectSkips(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		header map[string]string
		code   int
	}{
		{"do not track", `{"path":"/"}`, map[string]string{"DNT": "1"}, http.StatusNoContent},
		{"bot", `{"path":"/"}`, map[string]string{"User-Agent": "Googlebot/2.1"}, http.StatusNoContent},
		{"relative path", `{"path":"blog"}`, nil, http.StatusBadRequest},
		{"long path", `{"path":"/` + strings.Repeat("a", maxPathLen) + `"}`, nil, http.StatusBadRequest},
		{"bad json", `{`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newTestHandler(t)
			rec := collect(h, tt.body, tt.header)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if n := countViews(t, s); n != 0 {
				t.Errorf("stored %d views, want 0", n)
			}
		})
	}
}

func TestCollectRateLimited(t *testing.T) {
	h, _ := newTestHandler(t)
	for i := 0; i < 60; i++ {
		collect(h, `{"path":"/"}`, nil)
	}
	if rec := collect(h, `{"path":"/"}`, nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestGetStatsJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	collect(h, `{"path":"/blog/pt/first/"}`, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/api/stats?period=today", nil)
	rec := httptest.NewRecorder()
	if err := h.GetStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalViews != 1 || len(stats.TopPages) != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Period != "2024-03-01 to 2024-03-02" {
		t.Errorf("Period = %q, want today only", stats.Period)
	}
}
