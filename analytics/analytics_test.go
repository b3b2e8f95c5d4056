package analytics

import (
	"testing"
	"time"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		ua          string
		wantBrowser string
		wantDevice  string
	}{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0", "Firefox", "Desktop"},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0", "Edge", "Desktop"},
		{"Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36", "Chrome", "Mobile"},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "Safari", "Tablet"},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 OPR/106.0", "Opera", "Desktop"},
		{"curl/8.4.0", "Other", "Desktop"},
	}
	for _, tt := range tests {
		browser, device := ParseUserAgent(tt.ua)
		if browser != tt.wantBrowser || device != tt.wantDevice {
			t.Errorf("ParseUserAgent(%q) = %q, %q, want %q, %q", tt.ua, browser, device, tt.wantBrowser, tt.wantDevice)
		}
	}
}

func TestIsBot(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"", true},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", true},
		{"facebookexternalhit/1.1", true},
		{"Mozilla/5.0 (X11; Linux x86_64) HeadlessChrome/120.0", true},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0", false},
	}
	for _, tt := range tests {
		if got := IsBot(tt.ua); got != tt.want {
			t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
		}
	}
}

func TestCleanReferrer(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"", "Direct"},
		{"https://www.google.com/search?q=laravel", "Google"},
		{"https://news.google.co.uk/", "Google"},
		{"https://duckduckgo.com/", "DuckDuckGo"},
		{"https://github.com/gcaraciolo", "GitHub"},
		{"https://blog.example.org/post", "blog.example.org"},
		{"https://caraciolo.dev/blog/pt/other/", ""},
		{"https://www.caraciolo.dev/", ""},
		{"not a url", "Other"},
	}
	for _, tt := range tests {
		if got := CleanReferrer(tt.ref, "caraciolo.dev"); got != tt.want {
			t.Errorf("CleanReferrer(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestVisitorIDRotatesDaily(t *testing.T) {
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := VisitorID("203.0.113.1", "ua", day)
	b := VisitorID("203.0.113.1", "ua", day.Add(5*time.Hour))
	c := VisitorID("203.0.113.1", "ua", day.AddDate(0, 0, 1))
	d := VisitorID("203.0.113.2", "ua", day)

	if len(a) != 16 {
		t.Fatalf("VisitorID length = %d, want 16", len(a))
	}
	if a != b {
		t.Errorf("same day should give same id: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("next day should give a new id")
	}
	if a == d {
		t.Errorf("different ip should give a different id")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two hits should be allowed")
	}
	if rl.allow("a") {
		t.Error("third hit should be blocked")
	}
	if !rl.allow("b") {
		t.Error("other keys are independent")
	}
}

func TestPeriodDays(t *testing.T) {
	tests := map[string]int{"today": 1, "week": 7, "month": 30, "year": 365, "": 7, "bogus": 7}
	for period, want := range tests {
		if got := PeriodDays(period); got != want {
			t.Errorf("PeriodDays(%q) = %d, want %d", period, got, want)
		}
	}
}
