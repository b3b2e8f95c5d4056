package blog

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gcaraciolo/blog/content"
	"github.com/gcaraciolo/blog/feed"
)

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	var buf bytes.Buffer
	if err := feed.WriteRSS(&buf, FeedChannel(a.Config), FeedItems(a.Config, posts)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}
