package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/folio/markdown"
)

var (
	// ErrDuplicatePath is returned when two posts route to the same path.
	ErrDuplicatePath = errors.New("content: duplicate post path")
	// ErrReservedPath is returned when a post claims a path the server
	// routes itself.
	ErrReservedPath = errors.New("content: reserved post path")
)

// ReservedPaths are the server's own routes. Entries ending in "/" reserve
// the whole subtree.
var ReservedPaths = []string{
	"/feed.xml",
	"/sitemap.xml",
	"/robots.txt",
	"/favicon.svg",
	"/contact/",
	"/public/",
}

// IsReserved reports whether p is one of reserved or lies below a reserved
// subtree.
func IsReserved(p string, reserved []string) bool {
	p = NormalizePath(p)
	for _, r := range reserved {
		if dir, ok := strings.CutSuffix(r, "/"); ok {
			if p == dir || strings.HasPrefix(p, r) {
				return true
			}
		} else if p == r {
			return true
		}
	}
	return false
}

const excerptLength = 140

// Loader produces a Snapshot of the site. It is invoked before rendering and
// the returned snapshot is treated as read-only by every consumer.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Path    string `yaml:"path"`
	Excerpt string `yaml:"excerpt"`
	Draft   bool   `yaml:"draft"`
}

// MarkdownLoader reads posts from *.md files with YAML front matter.
type MarkdownLoader struct {
	FS         fs.FS
	Site       SiteMetadata
	DateFormat string   // default DefaultDateFormat
	Reserved   []string // default ReservedPaths
}

// NewMarkdownLoader returns a loader reading the content directory dir.
func NewMarkdownLoader(dir string, site SiteMetadata) *MarkdownLoader {
	return &MarkdownLoader{FS: os.DirFS(dir), Site: site}
}

// Load walks the content tree, skipping drafts and dot-directories, and
// returns the posts sorted by date descending.
func (l *MarkdownLoader) Load(ctx context.Context) (Snapshot, error) {
	var posts []Post
	seen := make(map[string]string)
	err := fs.WalkDir(l.FS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if name != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(path.Ext(name), ".md") {
			return nil
		}
		post, ok, err := l.readPost(name)
		if err != nil || !ok {
			return err
		}
		if prev, dup := seen[post.Path]; dup {
			return fmt.Errorf("%s and %s both route to %s: %w", prev, name, post.Path, ErrDuplicatePath)
		}
		seen[post.Path] = name
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("content: load markdown: %w", err)
	}
	SortPosts(posts)
	return Snapshot{Site: l.Site, Posts: posts}, nil
}

func (l *MarkdownLoader) readPost(name string) (Post, bool, error) {
	f, err := l.FS.Open(name)
	if err != nil {
		return Post{}, false, err
	}
	defer f.Close()

	var fm frontMatter
	body, err := frontmatter.Parse(f, &fm)
	if err != nil {
		return Post{}, false, fmt.Errorf("parse front matter %s: %w", name, err)
	}
	if fm.Draft {
		return Post{}, false, nil
	}

	slug := Slugify(strings.TrimSuffix(path.Base(name), path.Ext(name)))
	if slug == "index" && path.Dir(name) != "." {
		slug = Slugify(path.Base(path.Dir(name)))
	}
	postPath := strings.TrimSpace(fm.Path)
	if postPath == "" && slug != "" {
		postPath = "/" + slug
	}
	postPath = NormalizePath(postPath)
	if postPath == "/" {
		return Post{}, false, fmt.Errorf("%s: post needs a path or a sluggable file name", name)
	}
	reserved := l.Reserved
	if reserved == nil {
		reserved = ReservedPaths
	}
	if IsReserved(postPath, reserved) {
		return Post{}, false, fmt.Errorf("%s: %s: %w", name, postPath, ErrReservedPath)
	}

	date, err := parseDate(fm.Date)
	if err != nil {
		return Post{}, false, fmt.Errorf("%s: %w", name, err)
	}
	text, err := markdown.PlainText(string(body))
	if err != nil {
		return Post{}, false, fmt.Errorf("%s: %w", name, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}
	excerpt := strings.TrimSpace(fm.Excerpt)
	if excerpt == "" {
		excerpt = Prune(text, excerptLength)
	}

	return Post{
		ID:          PostID(postPath),
		Title:       title,
		Date:        date,
		DateText:    FormatDate(date, l.DateFormat),
		Path:        postPath,
		Slug:        slug,
		Excerpt:     excerpt,
		ReadingTime: EstimateReadingTime(text),
		Body:        string(body),
	}, true, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", s)
}

// FormatDate renders t with layout, or DefaultDateFormat when layout is
// empty. The zero time renders as "".
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.Format(layout)
}

// SortPosts orders posts newest first. Undated posts go last; ties are
// broken by path so the order is deterministic.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Date.IsZero() != b.Date.IsZero() {
			return b.Date.IsZero()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Path < b.Path
	})
}

// Prune shortens text to at most n runes, cutting at a word boundary and
// appending an ellipsis when anything was removed.
func Prune(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if !unicode.IsSpace(runes[n]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	cut = strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return cut + "…"
}

// NormalizePath returns p rooted at "/" without a trailing slash.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
