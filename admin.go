package blog

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Config.ViewSite(), false, CsrfToken(c)))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/analytics/")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/analytics/")
	}
	a.loginLimiter.Record(ip)
	log.Warn().Str("ip", ip).Msg("failed admin login")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.Config.ViewSite(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAnalyticsDashboard(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	period := c.QueryParam("period")
	switch period {
	case "today", "week", "month", "year":
	default:
		period = "week"
	}
	stats, err := a.analyticsHandler.StatsFor(c, period)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AnalyticsDashboard(a.Config.ViewSite(), stats, period, CsrfToken(c)))
}

// requireAdmin guards the analytics API.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}
