package views

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name             string
	URL              string // canonical base URL, no trailing slash
	Description      string
	Author           string
	AnalyticsEnabled bool
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// NavLink is an entry of the top navigation.
type NavLink struct {
	Label string
	Path  string
}

// DefaultNav is the navigation shown on every page.
var DefaultNav = []NavLink{
	{Label: "Blog", Path: "/"},
	{Label: "Docs", Path: "/docs/"},
}
