package folio

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

// page wraps body in the site layout with the visitor's contact state.
func (a *App) page(c echo.Context, meta views.PageMeta, body templ.Component) templ.Component {
	return views.Layout(a.Config.View(), meta, a.contactView(c, a.visitorReveal(c)), body)
}

func (a *App) handleHome(c echo.Context) error {
	snap, err := a.Cache.Load(c.Request().Context())
	if err != nil {
		return err
	}
	cfg := a.Config.View()
	meta := views.PageMeta{
		Title:       "Home",
		Description: a.Config.Description,
		Keywords:    a.Config.Keywords,
		URL:         views.AbsURL(cfg, "/"),
		OGType:      "website",
		JSONLD:      views.WebsiteJsonLD(cfg),
	}
	return Render(c, a.page(c, meta, views.HomePage(cfg, snap)))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.Post(c.Request().Context(), c.Request().URL.Path)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	cfg := a.Config.View()
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         views.PostURL(cfg, post),
		OGType:      "article",
		JSONLD:      views.BlogPostingJsonLD(cfg, post),
	}
	return Render(c, a.page(c, meta, views.PostPage(post)))
}

func (a *App) handleSitemap(c echo.Context) error {
	snap, err := a.Cache.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, snap.Posts)
}

func (a *App) handleFeed(c echo.Context) error {
	snap, err := a.Cache.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, snap.Posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	if path := filepath.Join(a.Config.StaticDir, "favicon.svg"); fileExists(path) {
		return c.File(path)
	}
	b, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", b)
}

func (a *App) handleRobots(c echo.Context) error {
	if path := filepath.Join(a.Config.StaticDir, "robots.txt"); fileExists(path) {
		return c.File(path)
	}
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", views.AbsURL(a.Config.View(), "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.page(c, views.PageMeta{Title: "Not found"}, views.NotFound()))
	case code == http.StatusTooManyRequests:
		_ = RenderStatus(c, code, a.page(c, views.PageMeta{Title: "Too many requests"}, views.TooManyRequests()))
	case code >= 500:
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.page(c, views.PageMeta{Title: "Error"}, views.ServerError()))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
