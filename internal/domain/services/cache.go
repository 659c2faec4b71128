package services

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
)

// ChapterCacheService manages the per-chapter cached state. A chapter's
// snapshot, once written, is frozen: revisiting the chapter yields the
// exact state that existed when it was read, regardless of what later
// chapters added. Only an explicit re-analysis overwrites it.
type ChapterCacheService struct {
	store ports.ChapterStore
}

// NewChapterCacheService creates a new ChapterCacheService.
func NewChapterCacheService(store ports.ChapterStore) *ChapterCacheService {
	return &ChapterCacheService{store: store}
}

// Get returns the cached entry for the chapter, or nil on a miss.
func (s *ChapterCacheService) Get(ctx context.Context, ref entities.ChapterRef) (*entities.ChapterEntry, error) {
	return s.store.GetChapter(ctx, ref.StoryID, ref.Index)
}

// PutContent caches fetched chapter content without a snapshot, marking
// the chapter "known but not yet analyzed". An existing frozen snapshot
// is preserved: content-only writes never un-freeze a chapter.
func (s *ChapterCacheService) PutContent(ctx context.Context, ref entities.ChapterRef, content string) error {
	existing, err := s.store.GetChapter(ctx, ref.StoryID, ref.Index)
	if err != nil {
		return fmt.Errorf("reading existing entry: %w", err)
	}
	if existing.Analyzed() {
		return nil
	}
	return s.store.PutChapter(ctx, ref.StoryID, ref.Index, &entities.ChapterEntry{Content: content})
}

// Freeze persists the chapter's content together with its computed
// snapshot. This is an unconditional overwrite: callers use it both for
// first-time analysis and for explicit user-triggered re-analysis.
func (s *ChapterCacheService) Freeze(ctx context.Context, ref entities.ChapterRef, content string, snapshot *entities.Snapshot) error {
	entry := &entities.ChapterEntry{Content: content, Snapshot: snapshot.Clone()}
	return s.store.PutChapter(ctx, ref.StoryID, ref.Index, entry)
}

// PriorSnapshot resolves the merge context for analyzing the chapter: the
// frozen snapshot of the immediately preceding chapter. The story-level
// cumulative value is deliberately not consulted - after non-linear
// navigation it can reflect a different chapter. Absent or unanalyzed
// predecessors yield an empty snapshot.
func (s *ChapterCacheService) PriorSnapshot(ctx context.Context, ref entities.ChapterRef) (*entities.Snapshot, error) {
	prev := ref.Prev()
	if prev.Index < 1 {
		return &entities.Snapshot{}, nil
	}
	entry, err := s.store.GetChapter(ctx, prev.StoryID, prev.Index)
	if err != nil {
		return nil, fmt.Errorf("reading prior chapter %d: %w", prev.Index, err)
	}
	if !entry.Analyzed() {
		return &entities.Snapshot{}, nil
	}
	return entry.Snapshot.Clone(), nil
}

// StoryState returns the story-level cumulative snapshot kept for
// display, or an empty snapshot when none exists.
func (s *ChapterCacheService) StoryState(ctx context.Context, storyID string) (*entities.Snapshot, error) {
	snap, err := s.store.GetStoryState(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return &entities.Snapshot{}, nil
	}
	return snap, nil
}

// SetStoryState overwrites the story-level cumulative snapshot. This
// value is display-only and is never used as merge input.
func (s *ChapterCacheService) SetStoryState(ctx context.Context, storyID string, snapshot *entities.Snapshot) error {
	return s.store.PutStoryState(ctx, storyID, snapshot.Clone())
}

// ListChapters returns the cached chapter indexes for a story.
func (s *ChapterCacheService) ListChapters(ctx context.Context, storyID string) ([]int, error) {
	return s.store.ListChapters(ctx, storyID)
}
