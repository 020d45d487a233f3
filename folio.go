// Package folio serves a personal landing page: a bio with the author's
// posts, one page per post, and a footer whose contact email is revealed and
// copied on request.
//
// Posts are markdown files with YAML front matter. They are read straight
// from the content directory or, when a database path is configured, indexed
// into SQLite first and served from there.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

// App is the central folio application. It wires together the content
// source, cache, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo

	// Source is where posts originate. Defaults to the markdown files under
	// Config.ContentDir.
	Source content.Loader
	// Store is the SQLite index, nil unless Config.DatabasePath is set.
	Store *content.Store
	// Cache serves every read.
	Cache *content.Cache

	contactLimiter *RateLimiter
	sessionSecret  []byte
	customRoutes   []func(*App)
	ready          bool
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the content source, builds the cache and registers middleware
// and routes. Start calls it; tests call it directly to exercise a.Echo
// without listening. Calling it again is a no-op.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}

	site := content.SiteMetadata{Title: a.Config.Name}
	if a.Source == nil {
		loader := content.NewMarkdownLoader(a.Config.ContentDir, site)
		loader.DateFormat = a.Config.DateFormat
		a.Source = loader
	}

	var serving content.Loader = a.Source
	if a.Config.DatabasePath != "" {
		store, err := content.NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init store: %w", err)
		}
		a.Store = store
		n, err := content.Sync(ctx, a.Source, store)
		if err != nil {
			return fmt.Errorf("folio: index posts: %w", err)
		}
		a.Echo.Logger.Infof("indexed %d posts into %s", n, a.Config.DatabasePath)
		serving = content.StoreLoader{Store: store, Site: site}
	}
	a.Cache = content.NewCache(serving, a.Config.CacheTTL)
	a.Cache.OnError = func(err error) {
		a.Echo.Logger.Errorf("load content, serving previous posts: %v", err)
	}

	a.contactLimiter = NewRateLimiter(a.Config.ContactLimit, a.Config.ContactWindow)

	a.sessionSecret = []byte(a.Config.SessionSecret)
	if len(a.sessionSecret) == 0 {
		a.Echo.Logger.Warn("no session secret configured; contact state resets on restart")
		a.sessionSecret = securecookie.GenerateRandomKey(32)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (folio.js, folio.css) are embedded; everything else
	// under /public comes from the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/folio.js", embeddedHandler)
	e.GET("/public/folio.css", embeddedHandler)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)

	e.POST(views.ContactToggleURL, a.handleContactToggle)
	e.POST(views.ContactCopyURL, a.handleContactCopy)

	// Posts are routed by the path in their front matter.
	e.GET("/*", a.handlePost)
}

// Start sets the app up and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	if a.Config.Watch {
		w, err := a.WatchContent(ctx)
		if err != nil {
			return fmt.Errorf("folio: watch content: %w", err)
		}
		defer w.Close()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("folio: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	return nil
}

// Reload re-indexes the source when a store is configured and drops the
// cached snapshot so the next request sees current content. Content that
// fails to load leaves the current snapshot in place.
func (a *App) Reload(ctx context.Context) error {
	if a.Store != nil {
		n, err := content.Sync(ctx, a.Source, a.Store)
		if err != nil {
			return fmt.Errorf("folio: reindex: %w", err)
		}
		a.Echo.Logger.Infof("reindexed %d posts", n)
	} else if _, err := a.Source.Load(ctx); err != nil {
		// Keep serving the cached snapshot until the content is fixed.
		return fmt.Errorf("folio: reload: %w", err)
	}
	if a.Cache != nil {
		a.Cache.Invalidate()
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
