// Package blog is a Markdown blog: it loads posts and documentation pages
// from a source directory, serves them with Echo for previewing, and
// records privacy-first page views. The static export lives in package build.
//
// Templates are supplied through the ViewFuncs struct; DefaultViews wires
// the embedded layouts of package views.
package blog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/gcaraciolo/blog/analytics"
)

// App is the preview server. It wires together the content cache,
// handlers, middleware, analytics and the user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter     *LoginLimiter
	analyticsStore   *analytics.Store
	analyticsHandler *analytics.Handler
	stopCleanup      func()
	watcher          *Watcher
	customRoutes     []func(*App)
	staticDir        string
	watch            bool
	ready            bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: filepath.Join(cfg.SourceDir, cfg.AssetsDir),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup initializes the cache, analytics, middleware and routes without
// starting the listener. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}

	if a.Config.AnalyticsEnabled {
		if a.Config.AdminPassword == "" {
			return fmt.Errorf("blog: AdminPassword is required when analytics is enabled")
		}
		if a.Config.SessionSecret == "" {
			return fmt.Errorf("blog: SessionSecret is required when analytics is enabled")
		}
	}

	a.Cache = NewPostCache(a.Config.Loader(), a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("blog: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("blog: init analytics salt: %w", err)
		}
		a.analyticsHandler = analytics.NewHandler(store, siteHost(a.Config.URL))
		a.stopCleanup = store.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour, func(err error) {
			log.Error().Err(err).Msg("analytics cleanup")
		})
	}

	if a.watch {
		w, err := NewWatcher(a.Config.SourceDir, 200*time.Millisecond, func() {
			log.Info().Str("dir", a.Config.SourceDir).Msg("content changed, reloading")
			a.Cache.Invalidate()
		})
		if err != nil {
			return fmt.Errorf("blog: watch %s: %w", a.Config.SourceDir, err)
		}
		a.watcher = w
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	log.Info().Str("addr", a.Config.Addr).Str("source", a.Config.SourceDir).Msg("serving")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served first and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/assets/analytics.js", echo.WrapHandler(http.StripPrefix("/assets/", embeddedHandler)))

	e.Static("/assets", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	for _, prefix := range a.Config.postPrefixes() {
		e.GET("/"+prefix+"/", handleBlogRedirect)
		e.GET("/"+prefix+"/:lang/:slug/", a.handlePost)
	}
	e.GET("/docs/", a.handleDocsIndex)
	e.GET("/docs/*", a.handleDoc)

	if a.analyticsHandler != nil {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.GET("/admin/analytics/", a.handleAnalyticsDashboard)
		a.analyticsHandler.RegisterRoutes(e, requireAdmin)
	}
}

// Close releases the analytics database and the watcher.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.analyticsHandler != nil {
		a.analyticsHandler.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}

func siteHost(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatal().Str("key", key).Msg("blog: required environment variable is not set")
	}
	return v
}
