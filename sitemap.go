package blog

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gcaraciolo/blog/content"
	"github.com/gcaraciolo/blog/feed"
)

func (a *App) renderSitemap(c echo.Context, site *content.Site) error {
	var buf bytes.Buffer
	if err := feed.WriteSitemap(&buf, SitemapURLs(a.Config, site)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}
