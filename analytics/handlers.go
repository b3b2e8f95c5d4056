package analytics

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Handler serves the collect beacon and the stats API.
type Handler struct {
	store          *Store
	siteHost       string
	collectLimiter *rateLimiter
	now            func() time.Time
}

// NewHandler creates an analytics handler. siteHost is the blog's own host;
// referrers from it are not recorded. The collect endpoint is limited to 60
// requests per IP per minute.
func NewHandler(store *Store, siteHost string) *Handler {
	return &Handler{
		store:          store,
		siteHost:       siteHost,
		collectLimiter: newRateLimiter(60, time.Minute),
		now:            time.Now,
	}
}

// Close stops the background work of the handler.
func (h *Handler) Close() {
	h.collectLimiter.stop()
}

// CollectRequest is the body sent by the page beacon.
type CollectRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

const (
	maxPathLen     = 2048
	maxReferrerLen = 2048
)

func validateCollectRequest(req *CollectRequest) error {
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		return errors.New("path must be absolute")
	}
	if len(req.Path) > maxPathLen {
		return errors.New("path too long")
	}
	if len(req.Referrer) > maxReferrerLen {
		return errors.New("referrer too long")
	}
	return nil
}

// Collect records one page read.
func (h *Handler) Collect(c echo.Context) error {
	ip := c.RealIP()
	if !h.collectLimiter.allow(ip) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	// Do Not Track and bots are acknowledged but never stored.
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}
	ua := c.Request().UserAgent()
	if IsBot(ua) {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateCollectRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	now := h.now().UTC()
	browser, device := ParseUserAgent(ua)
	view := View{
		VisitorID: VisitorID(ip, ua, now),
		Path:      req.Path,
		Referrer:  CleanReferrer(req.Referrer, h.siteHost),
		Browser:   browser,
		Device:    device,
		Timestamp: now,
	}
	if err := h.store.SaveView(c.Request().Context(), view); err != nil {
		log.Error().Err(err).Str("path", req.Path).Msg("save view")
	}
	return c.NoContent(http.StatusNoContent)
}

// StatsFor returns the stats of the named period: the last PeriodDays
// calendar days (UTC), today included.
func (h *Handler) StatsFor(c echo.Context, period string) (*Stats, error) {
	days := PeriodDays(period)
	now := h.now().UTC()
	from := now.AddDate(0, 0, 1-days).Truncate(24 * time.Hour)
	to := now.Add(24 * time.Hour).Truncate(24 * time.Hour)
	return h.store.GetStats(c.Request().Context(), from, to)
}

// GetStats returns stats as JSON.
func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.StatsFor(c, c.QueryParam("period"))
	if err != nil {
		log.Error().Err(err).Msg("get stats")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// PeriodDays maps a period name to a number of days. Unknown names mean a week.
func PeriodDays(period string) int {
	switch period {
	case "today":
		return 1
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}

// RegisterRoutes registers the public collect endpoint and the protected
// stats API.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	e.POST("/api/analytics/collect", h.Collect)

	admin := e.Group("/admin/analytics/api")
	admin.Use(authMiddleware)
	admin.GET("/stats", h.GetStats)
}
