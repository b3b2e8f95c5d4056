// Package analytics counts page reads without cookies or raw IP addresses.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
)

// salt holds the per-installation random salt for IP hashing.
var salt struct {
	mu    sync.RWMutex
	value string
}

// InitSalt loads or generates the persistent salt used for hashing.
// Call it at startup before serving requests.
func InitSalt(store *Store) error {
	s, err := store.GetSetting("hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if s == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		s = hex.EncodeToString(b)
		if err := store.SetSetting("hash_salt", s); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	salt.mu.Lock()
	salt.value = s
	salt.mu.Unlock()
	return nil
}

func currentSalt() string {
	salt.mu.RLock()
	defer salt.mu.RUnlock()
	return salt.value
}

// View is a single page read.
type View struct {
	VisitorID string
	Path      string
	Referrer  string
	Browser   string
	Device    string
	Timestamp time.Time
}

// Stats aggregates views over a period.
type Stats struct {
	Period         string          `json:"period"`
	UniqueVisitors int             `json:"unique_visitors"`
	TotalViews     int             `json:"total_views"`
	TopPages       []PageStat      `json:"top_pages"`
	Referrers      []DimensionStat `json:"referrers"`
	Browsers       []DimensionStat `json:"browsers"`
	Devices        []DimensionStat `json:"devices"`
	DailyViews     []DailyView     `json:"daily_views"`
}

// PageStat is the view count of one path.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DimensionStat is a count for one value of a dimension (browser, referrer...).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyView is the view count of one day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// VisitorID derives an anonymous, salted visitor ID from IP and User-Agent.
// It changes every day so visitors cannot be followed over time.
func VisitorID(ip, userAgent string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(currentSalt() + "|" + day.UTC().Format("2006-01-02") + "|" + ip + "|" + userAgent))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser and device class from a User-Agent string.
func ParseUserAgent(ua string) (browser, device string) {
	ua = strings.ToLower(ua)

	// More specific patterns first: Edge and Opera UAs also mention Chrome.
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// iPad UAs contain "mobile" too.
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"facebookexternalhit", "headlesschrome", "lighthouse",
}

// IsBot reports whether the User-Agent looks like a crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	if ua == "" {
		return true
	}
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

var referrerDomainRegex = regexp.MustCompile(`^https?://(?:www\.)?([^/:]+)`)

// CleanReferrer reduces a referrer URL to a display name. Referrers from
// siteHost count as internal navigation and return "".
func CleanReferrer(ref, siteHost string) string {
	if ref == "" {
		return "Direct"
	}
	m := referrerDomainRegex.FindStringSubmatch(strings.ToLower(ref))
	if len(m) < 2 {
		return "Other"
	}
	host := m[1]
	if siteHost != "" && strings.TrimPrefix(strings.ToLower(siteHost), "www.") == host {
		return ""
	}
	for _, engine := range []struct{ marker, name string }{
		{"google.", "Google"},
		{"bing.", "Bing"},
		{"duckduckgo.", "DuckDuckGo"},
		{"github.", "GitHub"},
		{"twitter.", "Twitter"},
		{"linkedin.", "LinkedIn"},
	} {
		if strings.HasPrefix(host, engine.marker) || strings.Contains(host, "."+engine.marker) {
			return engine.name
		}
	}
	return host
}
