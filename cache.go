package blog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcaraciolo/blog/content"
)

// ErrNotFound is returned when a requested post or doc does not exist.
var ErrNotFound = content.ErrNotFound

// SiteLoader loads the whole site from its sources.
type SiteLoader interface {
	Load(ctx context.Context) (*content.Site, error)
}

// PostCache is an in-memory cache of the loaded site with TTL.
type PostCache struct {
	mu      sync.RWMutex
	site    *content.Site
	tags    []string
	fetched time.Time
	ttl     time.Duration
	loader  SiteLoader
}

// NewPostCache creates a PostCache backed by the given loader.
func NewPostCache(l SiteLoader, ttl time.Duration) *PostCache {
	return &PostCache{loader: l, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.site != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	site, err := c.loader.Load(ctx)
	if err != nil {
		return err
	}
	c.site = site
	c.tags = collectTags(site.AllPosts())
	c.fetched = time.Now()
	return nil
}

// Site returns the cached site after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) Site(ctx context.Context) (*content.Site, error) {
	c.mu.RLock()
	if c.valid() {
		site := c.site
		c.mu.RUnlock()
		return site, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.site, nil
}

// ListPosts returns all posts newest first, optionally filtered by tag.
func (c *PostCache) ListPosts(ctx context.Context, tag string) ([]content.Post, error) {
	site, err := c.Site(ctx)
	if err != nil {
		return nil, err
	}
	posts := site.AllPosts()
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []content.Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags, sorted.
func (c *PostCache) ListTags(ctx context.Context) ([]string, error) {
	if _, err := c.Site(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tags, nil
}

// GetPost returns the post published at permalink p.
func (c *PostCache) GetPost(ctx context.Context, p string) (content.Post, error) {
	site, err := c.Site(ctx)
	if err != nil {
		return content.Post{}, err
	}
	return site.PostByPath(p)
}

func collectTags(posts []content.Post) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			n := normalizeTag(t)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				tags = append(tags, n)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
