package blog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gcaraciolo/blog/content"
)

// SiteConfig holds all configuration for the blog: the site itself, the
// static build and the preview server.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Blog")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Default post author and JSON-LD author

	Env        string `mapstructure:"env"`        // Build environment (default "local")
	Production bool   `mapstructure:"production"` // Set for the production environment

	SourceDir     string               `mapstructure:"source_dir"`     // Content root (default "source")
	OutputDir     string               `mapstructure:"output_dir"`     // Build output (default "build_<env>")
	AssetsDir     string               `mapstructure:"assets_dir"`     // Static assets, relative to SourceDir (default "assets")
	ExcerptLength int                  `mapstructure:"excerpt_length"` // Listing excerpt length (default 255)
	ImageMaxWidth int                  `mapstructure:"image_max_width"`
	IncludeDrafts bool                 `mapstructure:"include_drafts"`
	Collections   []content.Collection `mapstructure:"collections"`

	Addr         string        `mapstructure:"addr"`           // Listen address (default ":3000")
	PostCacheTTL time.Duration `mapstructure:"post_cache_ttl"` // Site cache TTL (default 5min)

	AnalyticsEnabled       bool   `mapstructure:"analytics_enabled"`
	AnalyticsDatabasePath  string `mapstructure:"analytics_database_path"` // default "data/analytics.db"
	AnalyticsRetentionDays int    `mapstructure:"analytics_retention_days"`

	AdminPassword string `mapstructure:"admin_password"` // Required when analytics is enabled
	SessionSecret string `mapstructure:"session_secret"` // Required when analytics is enabled
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Env == "" {
		c.Env = "local"
	}
	if c.SourceDir == "" {
		c.SourceDir = "source"
	}
	if c.OutputDir == "" {
		c.OutputDir = "build_" + c.Env
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "assets"
	}
	if c.ExcerptLength <= 0 {
		c.ExcerptLength = 255
	}
	if c.ImageMaxWidth <= 0 {
		c.ImageMaxWidth = 800
	}
	if len(c.Collections) == 0 {
		c.Collections = []content.Collection{{Name: "posts"}}
	}
	for i := range c.Collections {
		if c.Collections[i].Author == "" {
			c.Collections[i].Author = c.Author
		}
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 365
	}
}

// ApplyDefaults fills unset fields with their defaults. LoadConfig and New
// call it; callers building a SiteConfig by hand for package build should too.
func (c *SiteConfig) ApplyDefaults() {
	c.setDefaults()
}

// Loader returns the content loader described by the config.
func (c SiteConfig) Loader() *content.Loader {
	return &content.Loader{
		Root:          c.SourceDir,
		Collections:   c.Collections,
		IncludeDrafts: c.IncludeDrafts,
	}
}

// postPrefixes returns the distinct permalink prefixes of the collections.
func (c SiteConfig) postPrefixes() []string {
	seen := make(map[string]bool)
	var prefixes []string
	for _, col := range c.Collections {
		p := strings.Trim(col.PathPrefix, "/")
		if p == "" {
			p = "blog"
		}
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// configKeys are registered with viper so BLOG_* environment variables
// override them even when no config file mentions the key.
var configKeys = []string{
	"name", "url", "description", "author", "production",
	"source_dir", "output_dir", "assets_dir", "excerpt_length", "image_max_width", "include_drafts",
	"addr", "post_cache_ttl",
	"analytics_enabled", "analytics_database_path", "analytics_retention_days",
	"admin_password", "session_secret", "cookie_secure",
}

// LoadConfig reads config.yaml from dir, merges config.<env>.yaml on top of
// it when present, then applies BLOG_* environment variables. Missing files
// are not an error; defaults fill the gaps.
func LoadConfig(dir, env string) (SiteConfig, error) {
	v := viper.New()
	for _, key := range configKeys {
		v.SetDefault(key, nil)
	}
	v.SetDefault("production", env == "production")

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	if env != "" {
		envFile := filepath.Join(dir, "config."+env+".yaml")
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			if err := v.MergeInConfig(); err != nil {
				return SiteConfig{}, fmt.Errorf("merge %s: %w", envFile, err)
			}
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory served under /assets/
// (default <source>/<assets_dir>).
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithWatch reloads the site cache whenever a file below the source
// directory changes.
func WithWatch() Option {
	return func(a *App) {
		a.watch = true
	}
}
