package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gcaraciolo/blog/markdown"
)

// DocsConfig describes the documentation pages, separately from the blog.
type DocsConfig struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	CleanURLs   bool      `yaml:"cleanUrls"`
	Head        []HeadTag `yaml:"head"`
}

// HeadTag is an extra element injected into <head> of doc pages. In YAML it
// is written as a tuple: [tag, {attr: value}] or [tag, {attr: value}, body].
type HeadTag struct {
	Tag   string
	Attrs []Attr
	Body  string
}

// Attr is a single HTML attribute; order follows the YAML source.
type Attr struct {
	Name  string
	Value string
}

// UnmarshalYAML decodes the tuple form of a head entry.
func (h *HeadTag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) == 0 || len(value.Content) > 3 {
		return fmt.Errorf("line %d: head entry must be [tag, {attrs}, body]", value.Line)
	}
	if err := value.Content[0].Decode(&h.Tag); err != nil {
		return err
	}
	if len(value.Content) > 1 {
		attrs := value.Content[1]
		if attrs.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: head attributes must be a mapping", attrs.Line)
		}
		for i := 0; i+1 < len(attrs.Content); i += 2 {
			h.Attrs = append(h.Attrs, Attr{Name: attrs.Content[i].Value, Value: attrs.Content[i+1].Value})
		}
	}
	if len(value.Content) > 2 {
		if err := value.Content[2].Decode(&h.Body); err != nil {
			return err
		}
	}
	return nil
}

// LoadDocsConfig reads the docs config at path. A missing file yields a
// zero config.
func LoadDocsConfig(path string) (DocsConfig, error) {
	var cfg DocsConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Doc is a rendered documentation page.
type Doc struct {
	Slug        string
	Title       string
	Description string
	Order       int
	Path        string
	Content     string
}

// DocPath returns the public path of a doc page.
func (c DocsConfig) DocPath(slug string) string {
	if c.CleanURLs {
		return "/docs/" + slug
	}
	return "/docs/" + slug + ".html"
}

func (l *Loader) loadDocs(ctx context.Context, dir string, cfg DocsConfig) ([]Doc, error) {
	files, err := markdownFiles(dir)
	if err != nil {
		return nil, err
	}
	docs := make([]Doc, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var fm frontMatter
		body, err := parseFile(file, &fm)
		if err != nil {
			return nil, err
		}
		if fm.Draft && !l.IncludeDrafts {
			continue
		}
		html, err := markdown.Render(body)
		if err != nil {
			return nil, fmt.Errorf("%s: render markdown: %w", file, err)
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return nil, err
		}
		slug := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))

		title := fm.Title
		if title == "" {
			title = firstHeading(body)
		}
		if title == "" {
			title = titleFromName(baseName(file))
		}
		docs = append(docs, Doc{
			Slug:        slug,
			Title:       title,
			Description: fm.Description,
			Order:       fm.Order,
			Path:        cfg.DocPath(slug),
			Content:     html,
		})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Order != docs[j].Order {
			return docs[i].Order < docs[j].Order
		}
		return docs[i].Title < docs[j].Title
	})
	return docs, nil
}

// firstHeading returns the text of the first ATX level-one heading.
func firstHeading(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
