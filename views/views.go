// Package views renders the blog pages. Layouts are html/template files
// embedded in the binary; every page is exposed as a templ.Component so
// handlers and the static builder render them the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/gcaraciolo/blog/analytics"
	"github.com/gcaraciolo/blog/content"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"isActive":   IsActive,
	"safeHTML":   func(s string) template.HTML { return template.HTML(s) },
	"excerpt": func(p content.Post, length int) template.HTML {
		return template.HTML(p.Excerpt(length))
	},
	"headTag": renderHeadTag,
}

// pages maps a page name to its template, each parsed together with the layout.
var pages = mustParsePages("index", "post", "doc", "docs_index", "notfound", "servererror", "login", "dashboard")

func mustParsePages(names ...string) map[string]*template.Template {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(layout.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

// page is the data every template receives.
type page struct {
	Site        SiteConfig
	Meta        PageMeta
	Nav         []NavLink
	CurrentPath string
	Head        []content.HeadTag
	JSONLD      template.JS
	Year        int
	Data        any
}

func render(name string, p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		if p.Nav == nil {
			p.Nav = DefaultNav
		}
		if p.Year == 0 {
			p.Year = time.Now().Year()
		}
		return t.ExecuteTemplate(w, "layout", p)
	})
}

// Index renders the post listing with excerpts.
func Index(site SiteConfig, posts []content.Post, excerptLength int) templ.Component {
	return render("index", page{
		Site:        site,
		Meta:        PageMeta{Description: site.Description, URL: BuildURL(site.URL), OGType: "website"},
		CurrentPath: "/",
		JSONLD:      template.JS(WebsiteJsonLD(site)),
		Data: struct {
			Posts         []content.Post
			ExcerptLength int
		}{posts, excerptLength},
	})
}

// Post renders a single post.
func Post(site SiteConfig, post content.Post) templ.Component {
	description := post.Description
	if description == "" {
		description = post.Excerpt(160)
	}
	return render("post", page{
		Site: site,
		Meta: PageMeta{
			Title:       post.Title,
			Description: plainText(description),
			URL:         BuildURL(site.URL, post.Path),
			OGType:      "article",
		},
		CurrentPath: post.Path,
		JSONLD:      template.JS(BlogPostingJsonLD(site, post)),
		Data:        post,
	})
}

type docData struct {
	Config content.DocsConfig
	Doc    content.Doc
	All    []content.Doc
}

// Doc renders a documentation page with the docs sidebar and the extra
// head tags of the docs config.
func Doc(site SiteConfig, cfg content.DocsConfig, doc content.Doc, all []content.Doc) templ.Component {
	return render("doc", page{
		Site:        site,
		Meta:        PageMeta{Title: doc.Title, Description: doc.Description, URL: DocURL(site.URL, doc)},
		CurrentPath: "/docs/",
		Head:        cfg.Head,
		Data:        docData{Config: cfg, Doc: doc, All: all},
	})
}

// DocsIndex renders the list of documentation pages.
func DocsIndex(site SiteConfig, cfg content.DocsConfig, all []content.Doc) templ.Component {
	return render("docs_index", page{
		Site:        site,
		Meta:        PageMeta{Title: cfg.Title, Description: cfg.Description, URL: BuildURL(site.URL, "docs")},
		CurrentPath: "/docs/",
		Head:        cfg.Head,
		Data:        docData{Config: cfg, All: all},
	})
}

func NotFound(site SiteConfig) templ.Component {
	return render("notfound", page{Site: site, Meta: PageMeta{Title: "404"}})
}

func ServerError(site SiteConfig) templ.Component {
	return render("servererror", page{Site: site, Meta: PageMeta{Title: "Erro"}})
}

// AdminLogin renders the admin login form.
func AdminLogin(site SiteConfig, showError bool, csrfToken string) templ.Component {
	return render("login", page{
		Site: site,
		Meta: PageMeta{Title: "Admin"},
		Data: struct {
			ShowError bool
			CSRFToken string
		}{showError, csrfToken},
	})
}

// AnalyticsPeriods are the periods offered by the dashboard.
var AnalyticsPeriods = []string{"today", "week", "month", "year"}

// AnalyticsDashboard renders the stats of one period.
func AnalyticsDashboard(site SiteConfig, stats *analytics.Stats, period, csrfToken string) templ.Component {
	return render("dashboard", page{
		Site:        site,
		Meta:        PageMeta{Title: "Analytics"},
		CurrentPath: "/admin/analytics/",
		Data: struct {
			Stats     *analytics.Stats
			Period    string
			Periods   []string
			CSRFToken string
		}{stats, period, AnalyticsPeriods, csrfToken},
	})
}

// renderHeadTag writes a docs head entry as HTML. Void elements get no
// closing tag.
func renderHeadTag(h content.HeadTag) template.HTML {
	var b strings.Builder
	b.WriteString("<" + html.EscapeString(h.Tag))
	for _, a := range h.Attrs {
		b.WriteString(" " + html.EscapeString(a.Name))
		if a.Value != "" {
			b.WriteString(`="` + html.EscapeString(a.Value) + `"`)
		}
	}
	b.WriteString(">")
	switch strings.ToLower(h.Tag) {
	case "meta", "link", "base":
		return template.HTML(b.String())
	}
	b.WriteString(h.Body)
	b.WriteString("</" + html.EscapeString(h.Tag) + ">")
	return template.HTML(b.String())
}

// plainText returns the text of an HTML fragment with tags removed and
// entities decoded.
func plainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
