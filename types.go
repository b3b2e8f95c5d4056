package blog

import (
	"github.com/a-h/templ"

	"github.com/gcaraciolo/blog/analytics"
	"github.com/gcaraciolo/blog/content"
	"github.com/gcaraciolo/blog/views"
)

// ViewFuncs holds the components the handlers and the static build call
// when rendering pages. Replace any of them to customize a page.
type ViewFuncs struct {
	Index              func(site views.SiteConfig, posts []content.Post, excerptLength int) templ.Component
	Post               func(site views.SiteConfig, post content.Post) templ.Component
	Doc                func(site views.SiteConfig, cfg content.DocsConfig, doc content.Doc, all []content.Doc) templ.Component
	DocsIndex          func(site views.SiteConfig, cfg content.DocsConfig, all []content.Doc) templ.Component
	NotFound           func(site views.SiteConfig) templ.Component
	ServerError        func(site views.SiteConfig) templ.Component
	AdminLogin         func(site views.SiteConfig, showError bool, csrfToken string) templ.Component
	AnalyticsDashboard func(site views.SiteConfig, stats *analytics.Stats, period, csrfToken string) templ.Component
}

// DefaultViews returns the embedded layouts of package views.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Index:              views.Index,
		Post:               views.Post,
		Doc:                views.Doc,
		DocsIndex:          views.DocsIndex,
		NotFound:           views.NotFound,
		ServerError:        views.ServerError,
		AdminLogin:         views.AdminLogin,
		AnalyticsDashboard: views.AnalyticsDashboard,
	}
}

// ViewSite is the subset of the config templates see.
func (c SiteConfig) ViewSite() views.SiteConfig {
	return views.SiteConfig{
		Name:             c.Name,
		URL:              c.URL,
		Description:      c.Description,
		Author:           c.Author,
		AnalyticsEnabled: c.AnalyticsEnabled,
	}
}
