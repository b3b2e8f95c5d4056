package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gcaraciolo/blog/markdown"
)

// Loader reads a source directory laid out as:
//
//	<root>/_posts/*.md     one directory per collection
//	<root>/docs/*.md       documentation pages
//	<root>/docs.yaml       documentation site config
type Loader struct {
	Root          string
	Collections   []Collection
	DocsDir       string // default "docs"
	DocsConfig    string // default "docs.yaml"
	IncludeDrafts bool
}

// frontMatter is the YAML header accepted at the top of posts and docs.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Language    string   `yaml:"language"`
	Excerpt     string   `yaml:"excerpt"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	Order       int      `yaml:"order"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads every collection and the documentation pages.
func (l *Loader) Load(ctx context.Context) (*Site, error) {
	site := &Site{
		Collections: make(map[string][]Post, len(l.Collections)),
		LoadedAt:    time.Now(),
	}

	collections := l.Collections
	if len(collections) == 0 {
		collections = []Collection{{}}
	}
	for _, c := range collections {
		c.setDefaults()
		posts, err := l.loadCollection(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("load collection %s: %w", c.Name, err)
		}
		site.Collections[c.Name] = posts
	}

	docsConfig := l.DocsConfig
	if docsConfig == "" {
		docsConfig = "docs.yaml"
	}
	cfg, err := LoadDocsConfig(filepath.Join(l.Root, docsConfig))
	if err != nil {
		return nil, err
	}
	site.DocsConfig = cfg

	docsDir := l.DocsDir
	if docsDir == "" {
		docsDir = "docs"
	}
	docs, err := l.loadDocs(ctx, filepath.Join(l.Root, docsDir), cfg)
	if err != nil {
		return nil, fmt.Errorf("load docs: %w", err)
	}
	site.Docs = docs
	return site, nil
}

func (l *Loader) loadCollection(ctx context.Context, c Collection) ([]Post, error) {
	dir := filepath.Join(l.Root, c.Dir)
	files, err := markdownFiles(dir)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := loadPost(file, c)
		if err != nil {
			return nil, err
		}
		if post.Draft && !l.IncludeDrafts {
			log.Debug().Str("file", file).Msg("skipping draft")
			continue
		}
		posts = append(posts, post)
	}
	sortPosts(posts, c.Sort)
	return posts, nil
}

func loadPost(file string, c Collection) (Post, error) {
	var fm frontMatter
	body, err := parseFile(file, &fm)
	if err != nil {
		return Post{}, err
	}
	date, err := parseDate(fm.Date)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", file, err)
	}
	html, err := markdown.Render(body)
	if err != nil {
		return Post{}, fmt.Errorf("%s: render markdown: %w", file, err)
	}

	name := baseName(file)
	title := fm.Title
	if title == "" {
		title = titleFromName(name)
	}
	author := fm.Author
	if author == "" {
		author = c.Author
	}
	return Post{
		Collection:      c.Name,
		Filename:        name,
		Title:           title,
		Date:            date,
		Author:          author,
		Language:        fm.Language,
		Description:     fm.Description,
		Tags:            fm.Tags,
		Draft:           fm.Draft,
		Path:            c.Permalink(fm.Language, name),
		AuthoredExcerpt: fm.Excerpt,
		Content:         html,
	}, nil
}

// parseFile decodes the front matter of file into v and returns the body.
// Files without front matter are returned whole.
func parseFile(file string, v any) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), v)
	if err != nil {
		return nil, fmt.Errorf("%s: parse front matter: %w", file, err)
	}
	return body, nil
}

// markdownFiles lists the .md/.markdown files below dir, skipping hidden
// entries. A missing dir yields no files.
func markdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && os.IsNotExist(err) {
				return fs.SkipDir
			}
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".md", ".markdown":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q, use YYYY-MM-DD or RFC3339", s)
}

func baseName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func titleFromName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.Und).String(name)
}

func sortPosts(posts []Post, key string) {
	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch field {
		case "title":
			if desc {
				return a.Title > b.Title
			}
			return a.Title < b.Title
		default:
			// Undated posts go last in either direction.
			if a.Date.IsZero() != b.Date.IsZero() {
				return b.Date.IsZero()
			}
			if desc {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
	})
}
