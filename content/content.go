// Package content loads the Markdown sources of the site: posts grouped in
// collections and the separate documentation pages.
package content

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/gcaraciolo/blog/excerpt"
)

// ErrNotFound is returned when a requested post or doc does not exist.
var ErrNotFound = errors.New("content: not found")

// Post is a rendered entry of a collection.
type Post struct {
	Collection  string
	Filename    string // source file name without extension
	Title       string
	Date        time.Time
	Author      string
	Language    string
	Description string
	Tags        []string
	Draft       bool
	Path        string // permalink, e.g. /blog/pt/hello-world

	// AuthoredExcerpt is the excerpt given in front matter, if any.
	AuthoredExcerpt string
	// Content is the rendered HTML body.
	Content string
}

// Excerpt returns the listing preview of the post, see excerpt.Extract.
func (p Post) Excerpt(length int) string {
	return excerpt.Extract(excerpt.Page{Excerpt: p.AuthoredExcerpt, Content: p.Content}, length)
}

// Collection configures one group of posts, e.g. "posts".
type Collection struct {
	Name            string `mapstructure:"name" yaml:"name"`
	Dir             string `mapstructure:"dir" yaml:"dir"`                           // default "_" + Name
	Author          string `mapstructure:"author" yaml:"author"`                     // default author
	Sort            string `mapstructure:"sort" yaml:"sort"`                         // "-date" (default), "date", "title", "-title"
	PathPrefix      string `mapstructure:"path_prefix" yaml:"path_prefix"`           // default "blog"
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"` // default "pt"
}

func (c *Collection) setDefaults() {
	if c.Name == "" {
		c.Name = "posts"
	}
	if c.Dir == "" {
		c.Dir = "_" + c.Name
	}
	if c.Sort == "" {
		c.Sort = "-date"
	}
	if c.PathPrefix == "" {
		c.PathPrefix = "blog"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "pt"
	}
}

// Permalink builds the public path of a post: /<prefix>/<language>/<filename>.
func (c Collection) Permalink(language, filename string) string {
	if language == "" {
		language = c.DefaultLanguage
	}
	return "/" + path.Join(strings.Trim(c.PathPrefix, "/"), language, filename)
}

// Site is everything loaded from the source directory.
type Site struct {
	Collections map[string][]Post
	Docs        []Doc
	DocsConfig  DocsConfig
	LoadedAt    time.Time
}

// Posts returns the posts of the named collection in configured order.
func (s *Site) Posts(collection string) []Post {
	if s == nil {
		return nil
	}
	return s.Collections[collection]
}

// AllPosts returns the posts of every collection. A single collection keeps
// its configured sort order; posts of several collections are merged newest
// first.
func (s *Site) AllPosts() []Post {
	if s == nil {
		return nil
	}
	if len(s.Collections) == 1 {
		for _, posts := range s.Collections {
			return append([]Post(nil), posts...)
		}
	}
	var all []Post
	for _, posts := range s.Collections {
		all = append(all, posts...)
	}
	sortPosts(all, "-date")
	return all
}

// PostByPath finds a post by permalink. Trailing slashes are ignored.
func (s *Site) PostByPath(p string) (Post, error) {
	want := "/" + strings.Trim(p, "/")
	for _, posts := range s.Collections {
		for _, post := range posts {
			if post.Path == want {
				return post, nil
			}
		}
	}
	return Post{}, ErrNotFound
}

// DocBySlug finds a documentation page by slug.
func (s *Site) DocBySlug(slug string) (Doc, error) {
	for _, d := range s.Docs {
		if d.Slug == slug {
			return d, nil
		}
	}
	return Doc{}, ErrNotFound
}
