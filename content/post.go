// Package content loads blog posts and site metadata into immutable
// snapshots consumed by the views.
package content

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no post exists for a path.
var ErrNotFound = errors.New("content: post not found")

// DefaultDateFormat renders dates as "DD MMMM, YYYY".
const DefaultDateFormat = "02 January, 2006"

// idNamespace scopes post IDs so they stay stable across loads and machines.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/eringen/folio/posts"))

// Post is a single blog entry summary plus its markdown body.
type Post struct {
	ID          string
	Title       string
	Date        time.Time
	DateText    string // display-formatted Date
	Path        string // routable, unique
	Slug        string
	Excerpt     string
	ReadingTime ReadingTime
	Body        string
}

// SiteMetadata carries site-wide values read once per render.
type SiteMetadata struct {
	Title string
}

// Snapshot is the immutable result of a Loader run. Posts are ordered by
// date descending.
type Snapshot struct {
	Site  SiteMetadata
	Posts []Post
}

// PostByPath returns the post routed at path.
func (s Snapshot) PostByPath(path string) (Post, error) {
	want := NormalizePath(path)
	for _, p := range s.Posts {
		if p.Path == want {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// PostID derives the stable identifier for a post routed at path.
func PostID(path string) string {
	return uuid.NewSHA1(idNamespace, []byte(NormalizePath(path))).String()
}
