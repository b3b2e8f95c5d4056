package blog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Index(a.Config.ViewSite(), posts, a.Config.ExcerptLength))
}

// handlePost serves /<prefix>/<lang>/<slug>/; the request path is the
// post permalink.
func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Request().Context(), c.Request().URL.Path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.ViewSite()))
		}
		return err
	}
	return Render(c, a.Views.Post(a.Config.ViewSite(), post))
}

func (a *App) handleDocsIndex(c echo.Context) error {
	site, err := a.Cache.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.DocsIndex(a.Config.ViewSite(), site.DocsConfig, site.Docs))
}

// handleDoc serves /docs/<slug>, /docs/<slug>/ and /docs/<slug>.html.
func (a *App) handleDoc(c echo.Context) error {
	slug := strings.TrimSuffix(strings.Trim(c.Param("*"), "/"), ".html")
	site, err := a.Cache.Site(c.Request().Context())
	if err != nil {
		return err
	}
	doc, err := site.DocBySlug(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.ViewSite()))
		}
		return err
	}
	return Render(c, a.Views.Doc(a.Config.ViewSite(), site.DocsConfig, doc, site.Docs))
}

func (a *App) handleSitemap(c echo.Context) error {
	site, err := a.Cache.Site(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, site)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Config))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config.ViewSite()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config.ViewSite()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
