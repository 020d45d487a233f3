package folio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

const testEmail = "hello@example.com"

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.md": {Data: []byte("---\ntitle: Hello\ndate: 2024-01-01\npath: /hello\nexcerpt: Greetings\n---\nHello world, this is the first post.\n")},
		"second.md": {Data: []byte("---\ntitle: Second\ndate: 2024-02-01\n---\n## Heading\n\nSome more text.\n")},
		"draft.md":  {Data: []byte("---\ntitle: Draft\ndraft: true\n---\nNot yet.\n")},
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, fsys fstest.MapFS) *App {
	t.Helper()
	if cfg.Name == "" {
		cfg.Name = "Test Site"
	}
	if cfg.URL == "" {
		cfg.URL = "https://example.com"
	}
	if cfg.Email == "" {
		cfg.Email = testEmail
	}
	cfg.SessionSecret = "test-secret-test-secret-test-sec"
	cfg.GitHub = "https://github.com/example"
	cfg.Twitter = "https://twitter.com/example"
	src := &content.MarkdownLoader{FS: fsys, Site: content.SiteMetadata{Title: cfg.Name}}
	a := New(cfg, WithSource(src), WithStaticDir(t.TempDir()))
	require.NoError(t, a.Setup(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

// visitor keeps cookies between requests like a browser would.
type visitor struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newVisitor(t *testing.T, a *App) *visitor {
	return &visitor{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (v *visitor) do(req *http.Request) *httptest.ResponseRecorder {
	v.t.Helper()
	for _, c := range v.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	v.app.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		v.cookies[c.Name] = c
	}
	return rec
}

func (v *visitor) get(path string) (*httptest.ResponseRecorder, *goquery.Document) {
	v.t.Helper()
	rec := v.do(httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(v.t, err)
	return rec, doc
}

func (v *visitor) csrfToken() string {
	c, ok := v.cookies["_csrf"]
	require.True(v.t, ok, "csrf cookie should be set")
	return c.Value
}

// hxPost posts like htmx does: token in a header, HX-Request set.
func (v *visitor) hxPost(path string) (*httptest.ResponseRecorder, *goquery.Document) {
	v.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", v.csrfToken())
	rec := v.do(req)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(v.t, err)
	return rec, doc
}

func TestHomeListsPostsNewestFirst(t *testing.T) {
	a := newTestApp(t, SiteConfig{Keywords: []string{"go", "blog"}}, testFS())
	v := newVisitor(t, a)

	rec, doc := v.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))
	require.Equal(t, "Home | Test Site", doc.Find("title").Text())
	require.Equal(t, "go, blog", doc.Find(`meta[name="keywords"]`).AttrOr("content", ""))
	require.Equal(t, "Test Site", doc.Find(".bio-title a").Text())
	require.Equal(t, "Software Developer", doc.Find(".bio-subtitle").Text())

	blocks := doc.Find("article.post-summary")
	require.Equal(t, 2, blocks.Length())
	require.Equal(t, "/second", blocks.Eq(0).Find("a").AttrOr("href", ""))
	require.Equal(t, "/hello", blocks.Eq(1).Find("a").AttrOr("href", ""))
	require.NotEqual(t, blocks.Eq(0).AttrOr("data-key", ""), blocks.Eq(1).AttrOr("data-key", ""))
}

func TestHomePostBlock(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	_, doc := newVisitor(t, a).get("/")

	block := doc.Find(`article.post-summary:has(a[href="/hello"])`)
	require.Equal(t, 1, block.Length())
	require.Equal(t, "Hello", block.Find(".post-title").Text())
	require.Equal(t, "01 January, 2024", block.Find(".post-date").Text())
	require.Equal(t, "1 min read", block.Find(".post-reading-time").Text())
	require.Equal(t, "Greetings", block.Find(".post-excerpt").Text())
}

func TestHomeWithoutPosts(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, fstest.MapFS{})
	rec, doc := newVisitor(t, a).get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, doc.Find(".post-list").Length())
	require.Equal(t, 0, doc.Find("article").Length())
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)

	rec, doc := v.get("/second")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Second | Test Site", doc.Find("title").Text())
	require.Equal(t, "Second", doc.Find("h1.post-title").Text())
	require.Equal(t, "Heading", doc.Find(".post-body h2").Text())
	require.Equal(t, "https://example.com/second", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))

	rec = v.do(httptest.NewRequest(http.MethodGet, "/second/", nil))
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/second", rec.Header().Get("Location"))
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	for _, path := range []string{"/missing", "/draft", "/a/b/c"} {
		rec, doc := newVisitor(t, a).get(path)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		require.Equal(t, "404", doc.Find(".error-code").Text(), path)
		require.Equal(t, 1, doc.Find("footer#contact").Length(), path)
	}
}

func TestContactRevealAndCopy(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)

	rec, doc := v.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), testEmail, "email must not be in markup while hidden")
	require.Equal(t, "hidden", doc.Find("footer#contact").AttrOr("data-state", ""))

	// reveal
	rec, doc = v.hxPost(views.ContactToggleURL)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Empty(t, rec.Header().Get("HX-Trigger"))
	require.Equal(t, testEmail, doc.Find("#contact-email").Text())
	require.Equal(t, 0, doc.Find(".email-copied").Length())

	// copy
	rec, doc = v.hxPost(views.ContactCopyURL)
	require.Equal(t, http.StatusOK, rec.Code)
	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	require.Equal(t, testEmail, trigger[CopyEvent]["text"])
	require.Equal(t, views.CopiedMessage, doc.Find(".email-copied").Text())

	// state survives a full page load
	_, doc = v.get("/hello")
	require.Equal(t, "copied", doc.Find("footer#contact").AttrOr("data-state", ""))
	require.Equal(t, testEmail, doc.Find("#contact-email").Text())

	// hide
	rec, doc = v.hxPost(views.ContactToggleURL)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, doc.Find("#contact-email").Length())
	require.Equal(t, 0, doc.Find(".email-copied").Length())
	require.NotContains(t, rec.Body.String(), testEmail)

	// re-reveal starts uncopied
	_, doc = v.hxPost(views.ContactToggleURL)
	require.Equal(t, testEmail, doc.Find("#contact-email").Text())
	require.Equal(t, 0, doc.Find(".email-copied").Length())
}

func TestContactCopyWhileHiddenDoesNothing(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)
	v.get("/")

	rec, doc := v.hxPost(views.ContactCopyURL)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("HX-Trigger"))
	require.Equal(t, "hidden", doc.Find("footer#contact").AttrOr("data-state", ""))
	require.NotContains(t, rec.Body.String(), testEmail)
}

func TestContactStateIsPerVisitor(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	first := newVisitor(t, a)
	first.get("/")
	first.hxPost(views.ContactToggleURL)

	rec, doc := newVisitor(t, a).get("/")
	require.Equal(t, "hidden", doc.Find("footer#contact").AttrOr("data-state", ""))
	require.NotContains(t, rec.Body.String(), testEmail)
}

func TestContactFormFallbackRedirects(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)
	v.get("/hello")

	form := url.Values{"_csrf": {v.csrfToken()}}
	req := httptest.NewRequest(http.MethodPost, views.ContactToggleURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/hello")
	rec := v.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/hello#contact", rec.Header().Get("Location"))

	_, doc := v.get("/hello")
	require.Equal(t, testEmail, doc.Find("#contact-email").Text())
}

func TestBackURLIgnoresOtherHosts(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)
	v.get("/")

	req := httptest.NewRequest(http.MethodPost, views.ContactToggleURL, nil)
	req.Header.Set("X-CSRF-Token", v.csrfToken())
	req.Header.Set("Referer", "https://evil.example/phish")
	rec := v.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/#contact", rec.Header().Get("Location"))
}

func TestContactRequiresCSRFToken(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)
	v.get("/")

	req := httptest.NewRequest(http.MethodPost, views.ContactToggleURL, nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", "wrong")
	rec := v.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestContactIsRateLimited(t *testing.T) {
	a := newTestApp(t, SiteConfig{ContactLimit: 2}, testFS())
	v := newVisitor(t, a)
	v.get("/")

	rec, _ := v.hxPost(views.ContactToggleURL)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = v.hxPost(views.ContactToggleURL)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, doc := v.hxPost(views.ContactToggleURL)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "429", doc.Find(".error-code").Text())
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t, SiteConfig{Description: "notes"}, testFS())
	v := newVisitor(t, a)

	rec, _ := v.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	body := rec.Body.String()
	require.Contains(t, body, "<title>Test Site</title>")
	require.Contains(t, body, "<link>https://example.com/hello</link>")
	require.Contains(t, body, "<description>Greetings</description>")
	require.Less(t, strings.Index(body, "/second"), strings.Index(body, "/hello"))

	rec, _ = v.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	require.Contains(t, body, "<loc>https://example.com/</loc>")
	require.Contains(t, body, "<loc>https://example.com/second</loc>")
	require.Contains(t, body, "<lastmod>2024-02-01</lastmod>")
}

func TestRobotsAndFavicon(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)

	rec, _ := v.get("/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")

	rec, _ = v.get("/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<svg")

	rec, _ = v.get("/public/folio.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), CopyEvent)
}

func TestClipboardCopyRunsInClickHandler(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	v := newVisitor(t, a)
	v.get("/")

	_, doc := v.hxPost(views.ContactToggleURL)
	button := doc.Find("#contact-email")
	require.Equal(t, testEmail, button.AttrOr("data-copy", ""), "the address must be in the DOM before the copy request")

	rec, _ := v.get("/public/folio.js")
	js := rec.Body.String()
	require.Contains(t, js, `addEventListener("click"`)
	require.Contains(t, js, `#contact-email[data-copy]`)
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, testFS())
	rec, _ := newVisitor(t, a).get("/")
	csp := rec.Header().Get("Content-Security-Policy")
	require.Contains(t, csp, "script-src 'self' https://unpkg.com")
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestIndexedStoreServesPosts(t *testing.T) {
	fsys := testFS()
	a := newTestApp(t, SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "folio.db")}, fsys)
	require.NotNil(t, a.Store)

	v := newVisitor(t, a)
	_, doc := v.get("/")
	require.Equal(t, 2, doc.Find("article.post-summary").Length())

	rec, doc := v.get("/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello", doc.Find("h1.post-title").Text())

	fsys["third.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Third\ndate: 2024-03-01\n---\nNew.\n")}
	require.NoError(t, a.Reload(context.Background()))

	_, doc = v.get("/")
	require.Equal(t, 3, doc.Find("article.post-summary").Length())
	require.Equal(t, "/third", doc.Find("article.post-summary a").First().AttrOr("href", ""))
}

func TestContentSecurityPolicy(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js", "script-src 'self' https://unpkg.com;"},
		{"/public/htmx.min.js", "script-src 'self';"},
	}
	for _, tt := range tests {
		if got := contentSecurityPolicy(tt.src); !strings.Contains(got, tt.want) {
			t.Errorf("contentSecurityPolicy(%q) = %q, want it to contain %q", tt.src, got, tt.want)
		}
	}
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	if cfg.Name != "Blog" || cfg.Addr != ":3000" || cfg.Subtitle != "Software Developer" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DateFormat != content.DefaultDateFormat {
		t.Fatalf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.HTMXSrc != DefaultHTMXSrc {
		t.Fatalf("HTMXSrc = %q", cfg.HTMXSrc)
	}
}

func TestServerRoutesAreReservedForPosts(t *testing.T) {
	routes := []string{
		"/feed.xml", "/sitemap.xml", "/robots.txt", "/favicon.svg",
		views.ContactToggleURL, views.ContactCopyURL, "/public/folio.js",
	}
	for _, r := range routes {
		if !content.IsReserved(r, content.ReservedPaths) {
			t.Errorf("route %s is not reserved; a post could shadow it", r)
		}
	}
}

func TestPostOnServerRouteIsRejected(t *testing.T) {
	fsys := testFS()
	fsys["feed.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Feed\npath: /feed.xml\n---\nshadow\n")}
	a := newTestApp(t, SiteConfig{}, fsys)

	_, err := a.Cache.Load(context.Background())
	require.ErrorIs(t, err, content.ErrReservedPath)
}
