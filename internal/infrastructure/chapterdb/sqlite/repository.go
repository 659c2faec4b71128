// Package sqlite provides a SQLite implementation of the ChapterStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// Repository implements ports.ChapterStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository opens (or creates) the chapter cache database at path.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Per-chapter cached content and frozen analysis snapshot
	CREATE TABLE IF NOT EXISTS chapter_cache (
		story_id TEXT NOT NULL,
		chapter_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		snapshot TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (story_id, chapter_index)
	);
	CREATE INDEX IF NOT EXISTS idx_chapter_cache_story ON chapter_cache(story_id);

	-- Story-level cumulative snapshot (latest analyzed state for display)
	CREATE TABLE IF NOT EXISTS story_state (
		story_id TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// GetChapter returns the cached entry for (storyID, chapterIndex), or nil
// when the chapter has never been cached.
func (r *Repository) GetChapter(ctx context.Context, storyID string, chapterIndex int) (*entities.ChapterEntry, error) {
	query := `
		SELECT content, snapshot
		FROM chapter_cache
		WHERE story_id = ? AND chapter_index = ?
	`
	row := r.db.QueryRowContext(ctx, query, storyID, chapterIndex)

	var entry entities.ChapterEntry
	var snapshot sql.NullString
	err := row.Scan(&entry.Content, &snapshot)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning chapter: %w", err)
	}

	if snapshot.Valid && snapshot.String != "" {
		var s entities.Snapshot
		if err := json.Unmarshal([]byte(snapshot.String), &s); err != nil {
			return nil, fmt.Errorf("unmarshaling chapter snapshot: %w", err)
		}
		entry.Snapshot = &s
	}
	return &entry, nil
}

// PutChapter writes the entry unconditionally, overwriting any previous value.
func (r *Repository) PutChapter(ctx context.Context, storyID string, chapterIndex int, entry *entities.ChapterEntry) error {
	if entry == nil {
		return errors.New("chapter entry is required")
	}

	var snapshot sql.NullString
	if entry.Snapshot != nil {
		data, err := json.Marshal(entry.Snapshot)
		if err != nil {
			return fmt.Errorf("marshaling chapter snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO chapter_cache (story_id, chapter_index, content, snapshot, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(story_id, chapter_index) DO UPDATE SET
			content = excluded.content,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, storyID, chapterIndex, entry.Content, snapshot)
	if err != nil {
		return fmt.Errorf("saving chapter: %w", err)
	}
	return nil
}

// DeleteChapter removes a cached chapter entry.
func (r *Repository) DeleteChapter(ctx context.Context, storyID string, chapterIndex int) error {
	query := `DELETE FROM chapter_cache WHERE story_id = ? AND chapter_index = ?`
	_, err := r.db.ExecContext(ctx, query, storyID, chapterIndex)
	if err != nil {
		return fmt.Errorf("deleting chapter: %w", err)
	}
	return nil
}

// ListChapters returns the cached chapter indexes for a story in ascending order.
func (r *Repository) ListChapters(ctx context.Context, storyID string) ([]int, error) {
	query := `
		SELECT chapter_index
		FROM chapter_cache
		WHERE story_id = ?
		ORDER BY chapter_index ASC
	`
	rows, err := r.db.QueryContext(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("querying chapters: %w", err)
	}
	defer rows.Close()

	indexes := make([]int, 0, 16)
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scanning chapter index: %w", err)
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// GetStoryState returns the story-level cumulative snapshot, or nil when
// none has been recorded.
func (r *Repository) GetStoryState(ctx context.Context, storyID string) (*entities.Snapshot, error) {
	query := `SELECT snapshot FROM story_state WHERE story_id = ?`
	row := r.db.QueryRowContext(ctx, query, storyID)

	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning story state: %w", err)
	}

	var s entities.Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshaling story state: %w", err)
	}
	return &s, nil
}

// PutStoryState overwrites the story-level cumulative snapshot.
func (r *Repository) PutStoryState(ctx context.Context, storyID string, snapshot *entities.Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is required")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling story state: %w", err)
	}

	query := `
		INSERT INTO story_state (story_id, snapshot, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(story_id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query, storyID, string(data))
	if err != nil {
		return fmt.Errorf("saving story state: %w", err)
	}
	return nil
}

// DeleteStory removes all cached state for a story.
func (r *Repository) DeleteStory(ctx context.Context, storyID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chapter_cache WHERE story_id = ?`, storyID); err != nil {
		return fmt.Errorf("deleting chapters: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM story_state WHERE story_id = ?`, storyID); err != nil {
		return fmt.Errorf("deleting story state: %w", err)
	}
	return nil
}
