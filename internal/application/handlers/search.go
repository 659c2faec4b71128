package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/services"
)

// SearchHandler handles semantic entity search over indexed story state.
type SearchHandler struct {
	search *services.SearchService
	cache  *services.ChapterCacheService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *services.SearchService, cache *services.ChapterCacheService) *SearchHandler {
	return &SearchHandler{search: search, cache: cache}
}

// SearchResult contains the result of a search.
type SearchResult struct {
	Query    string
	Entities []entities.IndexedEntity
}

// Handle searches the story's indexed entities.
func (h *SearchHandler) Handle(ctx context.Context, storyID, query string, limit int) (*SearchResult, error) {
	ents, err := h.search.Search(ctx, storyID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	return &SearchResult{Query: query, Entities: ents}, nil
}

// HandleIndex rebuilds the search index from the story's current state.
func (h *SearchHandler) HandleIndex(ctx context.Context, storyID string) (int, error) {
	snapshot, err := h.cache.StoryState(ctx, storyID)
	if err != nil {
		return 0, fmt.Errorf("loading story state: %w", err)
	}
	if snapshot.IsEmpty() {
		return 0, fmt.Errorf("story %s has no analyzed state to index", storyID)
	}

	count, err := h.search.IndexSnapshot(ctx, storyID, snapshot)
	if err != nil {
		return 0, fmt.Errorf("indexing story state: %w", err)
	}
	return count, nil
}
