package blog

import (
	"strings"

	"github.com/gcaraciolo/blog/content"
	"github.com/gcaraciolo/blog/feed"
	"github.com/gcaraciolo/blog/views"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FeedItems turns posts into RSS items, described by their excerpt.
func FeedItems(cfg SiteConfig, posts []content.Post) []feed.Item {
	items := make([]feed.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, feed.Item{
			Title:       p.Title,
			Link:        views.BuildURL(cfg.URL, p.Path),
			Description: p.Excerpt(cfg.ExcerptLength),
			Author:      p.Author,
			Published:   p.Date,
		})
	}
	return items
}

// FeedChannel describes the site feed.
func FeedChannel(cfg SiteConfig) feed.Channel {
	return feed.Channel{
		Title:       cfg.Name,
		Link:        views.BuildURL(cfg.URL),
		Description: cfg.Description,
	}
}

// SitemapURLs lists the home page, every post and every doc page.
func SitemapURLs(cfg SiteConfig, site *content.Site) []feed.URL {
	urls := []feed.URL{{Loc: views.BuildURL(cfg.URL)}}
	for _, p := range site.AllPosts() {
		urls = append(urls, feed.URL{
			Loc:     views.BuildURL(cfg.URL, p.Path),
			LastMod: feed.LastMod(p.Date),
		})
	}
	if len(site.Docs) > 0 {
		urls = append(urls, feed.URL{Loc: views.BuildURL(cfg.URL, "docs")})
	}
	for _, d := range site.Docs {
		urls = append(urls, feed.URL{Loc: views.DocURL(cfg.URL, d)})
	}
	return urls
}

// RobotsTxt allows every crawler and points at the sitemap.
func RobotsTxt(cfg SiteConfig) string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(cfg.URL, "/") + "/sitemap.xml\n"
}
