package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/services"
)

// ShowHandler handles story-state display requests.
type ShowHandler struct {
	cache *services.ChapterCacheService
}

// NewShowHandler creates a new show handler.
func NewShowHandler(cache *services.ChapterCacheService) *ShowHandler {
	return &ShowHandler{cache: cache}
}

// ShowResult contains the story state prepared for display.
type ShowResult struct {
	StoryID  string
	Snapshot *entities.Snapshot

	// LocationTree is the hierarchy derived from the snapshot's location
	// list; a flat list of roots when no containment is known.
	LocationTree []*services.LocationNode

	// Chapters are the locally cached chapter indexes, ascending.
	Chapters []int
}

// Handle loads the cumulative story state and derives its location tree.
func (h *ShowHandler) Handle(ctx context.Context, storyID string) (*ShowResult, error) {
	snapshot, err := h.cache.StoryState(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story state: %w", err)
	}

	chapters, err := h.cache.ListChapters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}

	result := &ShowResult{
		StoryID:  storyID,
		Snapshot: snapshot,
		Chapters: chapters,
	}
	if snapshot != nil {
		result.LocationTree = services.BuildLocationTree(snapshot.Locations)
	}
	return result, nil
}

// HandleChapter loads the state as frozen at one specific chapter.
func (h *ShowHandler) HandleChapter(ctx context.Context, ref entities.ChapterRef) (*ShowResult, error) {
	entry, err := h.cache.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("loading chapter: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("chapter %d of story %s is not cached", ref.Index, ref.StoryID)
	}
	if !entry.Analyzed() {
		return nil, fmt.Errorf("chapter %d of story %s has not been analyzed", ref.Index, ref.StoryID)
	}

	result := &ShowResult{
		StoryID:      ref.StoryID,
		Snapshot:     entry.Snapshot,
		LocationTree: services.BuildLocationTree(entry.Snapshot.Locations),
	}
	return result, nil
}
