package folio

import (
	"time"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

// DefaultHTMXSrc is where the htmx script is loaded from unless configured.
const DefaultHTMXSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// SiteConfig holds all configuration for a folio site. The mapstructure tags
// match the keys of folio.yaml.
type SiteConfig struct {
	Name        string   `mapstructure:"name"`        // Site title (default "Blog")
	URL         string   `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string   `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string   `mapstructure:"author"`      // Author name for JSON-LD
	Subtitle    string   `mapstructure:"subtitle"`    // Line under the bio title (default "Software Developer")
	Keywords    []string `mapstructure:"keywords"`    // Home page meta keywords

	Email   string `mapstructure:"email"`   // Contact address revealed in the footer
	GitHub  string `mapstructure:"github"`  // Profile URL
	Twitter string `mapstructure:"twitter"` // Profile URL

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	ContentDir   string `mapstructure:"content_dir"`   // Markdown posts (default "content")
	StaticDir    string `mapstructure:"static_dir"`    // User static assets (default "public")
	DatabasePath string `mapstructure:"database_path"` // SQLite index; posts are read from markdown directly when empty
	DateFormat   string `mapstructure:"date_format"`   // Go layout for post dates (default "02 January, 2006")
	HTMXSrc      string `mapstructure:"htmx_src"`      // htmx script URL

	SessionSecret string `mapstructure:"session_secret"` // Session signing secret; random per process when empty
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	CacheTTL      time.Duration `mapstructure:"cache_ttl"`      // Post cache TTL (default 5min)
	Watch         bool          `mapstructure:"watch"`          // Reload posts when the content directory changes
	ContactLimit  int           `mapstructure:"contact_limit"`  // Contact requests per window per IP (default 30)
	ContactWindow time.Duration `mapstructure:"contact_window"` // Contact rate limit window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Subtitle == "" {
		c.Subtitle = "Software Developer"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DateFormat == "" {
		c.DateFormat = content.DefaultDateFormat
	}
	if c.HTMXSrc == "" {
		c.HTMXSrc = DefaultHTMXSrc
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.ContactLimit == 0 {
		c.ContactLimit = 30
	}
	if c.ContactWindow == 0 {
		c.ContactWindow = time.Minute
	}
}

// View returns the subset of the config templates read.
func (c SiteConfig) View() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		Subtitle:    c.Subtitle,
		GitHub:      c.GitHub,
		Twitter:     c.Twitter,
		HTMXSrc:     c.HTMXSrc,
	}
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

// WithStaticDir sets the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSource replaces the markdown directory as the origin of posts.
func WithSource(src content.Loader) Option {
	return func(a *App) {
		a.Source = src
	}
}
