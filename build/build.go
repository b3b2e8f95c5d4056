// Package build exports the site as static files: every post at its
// permalink, the docs pages, the feed, the sitemap and the assets.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	blog "github.com/gcaraciolo/blog"
	"github.com/gcaraciolo/blog/content"
	"github.com/gcaraciolo/blog/feed"
)

// ErrUnsafeOutput is returned when the output directory would wipe the
// sources or the working directory.
var ErrUnsafeOutput = errors.New("build: refusing to clean output directory")

// Builder renders a site into Config.OutputDir.
type Builder struct {
	Config blog.SiteConfig
	Views  blog.ViewFuncs
	Loader blog.SiteLoader

	// Concurrency bounds the pages rendered in parallel (default 8).
	Concurrency int
}

// Result summarises a build.
type Result struct {
	Output   string
	Posts    int
	Docs     int
	Assets   int
	Resized  int
	Duration time.Duration
}

// New returns a Builder for cfg using the content loader the config describes.
func New(cfg blog.SiteConfig, views blog.ViewFuncs) *Builder {
	cfg.ApplyDefaults()
	return &Builder{Config: cfg, Views: views, Loader: cfg.Loader()}
}

// Build cleans the output directory and writes the whole site into it.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{Output: b.Config.OutputDir}

	if err := b.checkOutput(); err != nil {
		return res, err
	}
	site, err := b.Loader.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load content: %w", err)
	}

	if err := os.RemoveAll(b.Config.OutputDir); err != nil {
		return res, fmt.Errorf("clean %s: %w", b.Config.OutputDir, err)
	}
	if err := os.MkdirAll(b.Config.OutputDir, 0o755); err != nil {
		return res, err
	}

	if res.Assets, res.Resized, err = b.copyAssets(); err != nil {
		return res, fmt.Errorf("copy assets: %w", err)
	}

	vsite := b.Config.ViewSite()
	posts := site.AllPosts()
	if err := b.writePage(ctx, "index.html", b.Views.Index(vsite, posts, b.Config.ExcerptLength)); err != nil {
		return res, err
	}
	if err := b.writePage(ctx, "404.html", b.Views.NotFound(vsite)); err != nil {
		return res, err
	}

	limit := b.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var written atomic.Int32
	for _, p := range posts {
		p := p
		g.Go(func() error {
			if err := b.writePage(gctx, postFile(p.Path), b.Views.Post(vsite, p)); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	if len(site.Docs) > 0 {
		g.Go(func() error {
			return b.writePage(gctx, "docs/index.html", b.Views.DocsIndex(vsite, site.DocsConfig, site.Docs))
		})
	}
	for _, d := range site.Docs {
		d := d
		g.Go(func() error {
			return b.writePage(gctx, docFile(d.Path), b.Views.Doc(vsite, site.DocsConfig, d, site.Docs))
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.Posts = int(written.Load())
	res.Docs = len(site.Docs)

	if err := b.writeFeeds(posts, site); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	log.Info().
		Str("output", res.Output).
		Int("posts", res.Posts).
		Int("docs", res.Docs).
		Int("assets", res.Assets).
		Int("resized", res.Resized).
		Dur("took", res.Duration).
		Msg("build complete")
	return res, nil
}

func (b *Builder) checkOutput() error {
	out, err := filepath.Abs(b.Config.OutputDir)
	if err != nil {
		return err
	}
	src, err := filepath.Abs(b.Config.SourceDir)
	if err != nil {
		return err
	}
	wd, _ := os.Getwd()
	if out == src || out == wd || out == filepath.Dir(out) || strings.HasPrefix(src, out+string(filepath.Separator)) {
		return fmt.Errorf("%w %s", ErrUnsafeOutput, b.Config.OutputDir)
	}
	return nil
}

func (b *Builder) writeFeeds(posts []content.Post, site *content.Site) error {
	var buf bytes.Buffer
	if err := feed.WriteRSS(&buf, blog.FeedChannel(b.Config), blog.FeedItems(b.Config, posts)); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	if err := b.writeFile("feed.xml", buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := feed.WriteSitemap(&buf, blog.SitemapURLs(b.Config, site)); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	if err := b.writeFile("sitemap.xml", buf.Bytes()); err != nil {
		return err
	}
	return b.writeFile("robots.txt", []byte(blog.RobotsTxt(b.Config)))
}

// postFile maps a permalink to its file: /blog/pt/hello -> blog/pt/hello/index.html.
func postFile(permalink string) string {
	return path.Join(strings.Trim(permalink, "/"), "index.html")
}

// docFile maps a doc path to its file. Paths with an .html extension are
// written as is; clean paths get a directory index.
func docFile(docPath string) string {
	p := strings.Trim(docPath, "/")
	if strings.HasSuffix(p, ".html") {
		return p
	}
	return path.Join(p, "index.html")
}

func (b *Builder) writePage(ctx context.Context, rel string, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	return b.writeFile(rel, buf.Bytes())
}

func (b *Builder) writeFile(rel string, data []byte) error {
	dst := filepath.Join(b.Config.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// copyAssets mirrors <source>/<assets> into <output>/assets, resizing wide
// images, and adds the analytics beacon when analytics is enabled.
func (b *Builder) copyAssets() (copied, resized int, err error) {
	srcRoot := filepath.Join(b.Config.SourceDir, b.Config.AssetsDir)
	dstRoot := filepath.Join(b.Config.OutputDir, "assets")

	err = filepath.WalkDir(srcRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == srcRoot && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstRoot, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		copied++
		if isImage(p) {
			r, err := copyImage(p, dst, b.Config.ImageMaxWidth)
			if r {
				resized++
			}
			return err
		}
		return copyFile(p, dst)
	})
	if err != nil {
		return copied, resized, err
	}

	if b.Config.AnalyticsEnabled {
		data, err := fs.ReadFile(blog.EmbeddedAssets, "embedded/analytics.js")
		if err != nil {
			return copied, resized, err
		}
		if err := b.writeFile("assets/analytics.js", data); err != nil {
			return copied, resized, err
		}
	}
	return copied, resized, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
