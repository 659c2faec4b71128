package ports

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// ChapterStore is the local persistence layer for per-chapter cached
// state and the per-story cumulative display snapshot. It must support
// point lookup, point write and full enumeration (for bulk sync).
type ChapterStore interface {
	// EnsureSchema creates the backing schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the store.
	Close() error

	// GetChapter returns the cached entry for (storyID, chapterIndex),
	// or nil when the chapter has never been cached.
	GetChapter(ctx context.Context, storyID string, chapterIndex int) (*entities.ChapterEntry, error)

	// PutChapter writes the entry unconditionally, overwriting any
	// previous value. Callers enforce the frozen-snapshot discipline.
	PutChapter(ctx context.Context, storyID string, chapterIndex int, entry *entities.ChapterEntry) error

	// DeleteChapter removes a cached chapter entry.
	DeleteChapter(ctx context.Context, storyID string, chapterIndex int) error

	// ListChapters returns the cached chapter indexes for a story in
	// ascending order.
	ListChapters(ctx context.Context, storyID string) ([]int, error)

	// GetStoryState returns the story-level cumulative snapshot, or nil
	// when none has been recorded.
	GetStoryState(ctx context.Context, storyID string) (*entities.Snapshot, error)

	// PutStoryState overwrites the story-level cumulative snapshot.
	PutStoryState(ctx context.Context, storyID string, snapshot *entities.Snapshot) error

	// DeleteStory removes all cached state for a story.
	DeleteStory(ctx context.Context, storyID string) error
}
