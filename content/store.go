package content

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite index of posts. It is filled from a markdown source with
// Sync and read back through StoreLoader.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while an index run writes; busy_timeout makes
	// the writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    date_text TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    words INTEGER NOT NULL,
    minutes INTEGER NOT NULL,
    reading_time TEXT NOT NULL,
    body TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, path, slug, title, date, date_text, excerpt, words, minutes, reading_time, body`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (Post, error) {
	var p Post
	var date string
	if err := r.Scan(&p.ID, &p.Path, &p.Slug, &p.Title, &date, &p.DateText, &p.Excerpt,
		&p.ReadingTime.Words, &p.ReadingTime.Minutes, &p.ReadingTime.Text, &p.Body); err != nil {
		return Post{}, err
	}
	if date != "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return Post{}, fmt.Errorf("content: post %s has bad date %q: %w", p.Path, date, err)
		}
		p.Date = t
	}
	return p, nil
}

// ListPosts returns every indexed post ordered by date descending. Undated
// posts sort last because their stored date is empty.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY date DESC, path ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ReplacePosts swaps the whole index for posts in one transaction.
func (s *Store) ReplacePosts(ctx context.Context, posts []Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		date := ""
		if !p.Date.IsZero() {
			date = p.Date.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Path, p.Slug, p.Title, date, p.DateText, p.Excerpt,
			p.ReadingTime.Words, p.ReadingTime.Minutes, p.ReadingTime.Text, p.Body); err != nil {
			return fmt.Errorf("content: index %s: %w", p.Path, err)
		}
	}
	return tx.Commit()
}

// Sync loads a snapshot from src and replaces the store's contents with it.
// It returns the number of posts indexed.
func Sync(ctx context.Context, src Loader, dst *Store) (int, error) {
	snap, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := dst.ReplacePosts(ctx, snap.Posts); err != nil {
		return 0, fmt.Errorf("content: sync: %w", err)
	}
	return len(snap.Posts), nil
}

// StoreLoader serves snapshots from a Store.
type StoreLoader struct {
	Store *Store
	Site  SiteMetadata
}

// Load implements Loader.
func (l StoreLoader) Load(ctx context.Context) (Snapshot, error) {
	posts, err := l.Store.ListPosts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("content: list indexed posts: %w", err)
	}
	return Snapshot{Site: l.Site, Posts: posts}, nil
}
