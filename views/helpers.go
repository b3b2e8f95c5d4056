package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gcaraciolo/blog/content"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// DocURL is the absolute URL of a doc page. Doc paths ending in .html keep
// their extension.
func DocURL(base string, doc content.Doc) string {
	if strings.HasSuffix(doc.Path, ".html") {
		return strings.TrimRight(base, "/") + doc.Path
	}
	return BuildURL(base, doc.Path)
}

// FormatDate renders a post date the way listings show it: "January 2, 2006".
// Zero dates render as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// IsActive reports whether a navigation link points at the current page:
// the trimmed page path must end with the trimmed link path. The root link
// only matches the home page.
func IsActive(pagePath, linkPath string) bool {
	page, link := trimPath(pagePath), trimPath(linkPath)
	if link == "" {
		return page == ""
	}
	return strings.HasSuffix(page, link)
}

func trimPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) string {
	postURL := BuildURL(cfg.URL, post.Path)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Description,
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Language != "" {
		data["inLanguage"] = post.Language
	}
	if !post.Date.IsZero() {
		data["datePublished"] = post.Date.Format("2006-01-02")
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
