// Package store persists journal entries and their emotion classification.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fjacquet/mood-journal/internal/fileutils"
	"fjacquet/mood-journal/internal/models"

	"github.com/oklog/ulid/v2"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// EntryStore defines the interface for entry storage.
// This allows for dependency injection and easier testing.
type EntryStore interface {
	// Save persists entry, assigning ID and CreatedAt, and returns the stored copy.
	Save(ctx context.Context, entry models.Entry) (models.Entry, error)
	// Feed returns the most recent entries, newest first, with text cut to snippetLen runes.
	Feed(ctx context.Context, limit, snippetLen int) ([]models.FeedItem, error)
	// List returns all entries oldest first, restricted to alias when it is not empty.
	List(ctx context.Context, alias string) ([]models.Entry, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	user_alias TEXT NOT NULL DEFAULT '',
	entry_text TEXT NOT NULL,
	emotion_label TEXT NOT NULL,
	emotion_scores TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
CREATE INDEX IF NOT EXISTS idx_entries_alias ON entries(user_alias);
`

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements EntryStore on a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Option customizes a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// OpenSQLite opens (and if needed creates) the database at path with WAL mode
// enabled and the entries schema in place.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if err := fileutils.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts a new entry.
func (s *SQLiteStore) Save(ctx context.Context, entry models.Entry) (models.Entry, error) {
	scores, err := models.EmotionResult{Label: entry.Label, Scores: entry.Scores}.ScoresJSON()
	if err != nil {
		return models.Entry{}, err
	}

	entry.ID = ulid.Make().String()
	entry.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (id, user_alias, entry_text, emotion_label, emotion_scores, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Alias, entry.Text, entry.Label, scores, entry.CreatedAt.Format(timeLayout))
	if err != nil {
		return models.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return entry, nil
}

// Feed returns recent entries for display.
func (s *SQLiteStore) Feed(ctx context.Context, limit, snippetLen int) ([]models.FeedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(NULLIF(user_alias, ''), ?), substr(entry_text, 1, ?), emotion_label, created_at
		 FROM entries ORDER BY created_at DESC, id DESC LIMIT ?`,
		models.AnonymousAlias, snippetLen, limit)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		var item models.FeedItem
		var created string
		if err := rows.Scan(&item.ID, &item.Alias, &item.Snippet, &item.Label, &created); err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}
		item.CreatedAt = parseTime(created)
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns stored entries with their decoded score distribution.
func (s *SQLiteStore) List(ctx context.Context, alias string) ([]models.Entry, error) {
	query := `SELECT id, user_alias, entry_text, emotion_label, emotion_scores, created_at FROM entries`
	var args []interface{}
	if alias = strings.TrimSpace(alias); alias != "" {
		query += ` WHERE user_alias = ?`
		args = append(args, alias)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var scores, created string
		if err := rows.Scan(&e.ID, &e.Alias, &e.Text, &e.Label, &scores, &created); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		e.Scores = models.DecodeScores(scores)
		e.CreatedAt = parseTime(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
