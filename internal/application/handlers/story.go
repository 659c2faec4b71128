package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/domain/services"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// StoryHandler manages the tracked-story registry.
type StoryHandler struct {
	store    ports.ChapterStore
	search   *services.SearchService // nil when search is not configured
	basePath string
	logger   *slog.Logger
}

// NewStoryHandler creates a new story handler.
func NewStoryHandler(store ports.ChapterStore, search *services.SearchService, basePath string, logger *slog.Logger) *StoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryHandler{
		store:    store,
		search:   search,
		basePath: basePath,
		logger:   logger,
	}
}

// StoryInfo is one registry row prepared for display.
type StoryInfo struct {
	ID        string
	Title     string
	SourceURL string
	Chapters  int
	Cached    int
}

// HandleAdd registers a story and returns its generated ID.
func (h *StoryHandler) HandleAdd(ctx context.Context, title, sourceURL string, chapters int) (string, error) {
	stories, err := config.LoadStories(h.basePath)
	if err != nil {
		return "", fmt.Errorf("loading story registry: %w", err)
	}

	id := config.SanitizeStoryID(title)
	if _, err := stories.Get(id); err == nil {
		return "", fmt.Errorf("story %s is already tracked", id)
	}

	stories.Add(id, config.StoryEntry{
		Title:     title,
		SourceURL: sourceURL,
		Chapters:  chapters,
	})
	if err := stories.Save(h.basePath); err != nil {
		return "", fmt.Errorf("saving story registry: %w", err)
	}
	return id, nil
}

// HandleRemove unregisters a story and wipes its cached state. Removal of
// derived state is best effort: the registry entry goes away regardless.
func (h *StoryHandler) HandleRemove(ctx context.Context, storyID string) error {
	stories, err := config.LoadStories(h.basePath)
	if err != nil {
		return fmt.Errorf("loading story registry: %w", err)
	}
	if _, err := stories.Get(storyID); err != nil {
		return err
	}

	stories.Remove(storyID)
	if err := stories.Save(h.basePath); err != nil {
		return fmt.Errorf("saving story registry: %w", err)
	}

	if err := h.store.DeleteStory(ctx, storyID); err != nil {
		h.logger.Warn("deleting cached story state failed", "story", storyID, "error", err)
	}
	if h.search != nil {
		if err := h.search.DeleteStory(ctx, storyID); err != nil {
			h.logger.Warn("deleting story search index failed", "story", storyID, "error", err)
		}
	}
	return nil
}

// HandleList returns all tracked stories with their local cache counts.
func (h *StoryHandler) HandleList(ctx context.Context) ([]StoryInfo, error) {
	stories, err := config.LoadStories(h.basePath)
	if err != nil {
		return nil, fmt.Errorf("loading story registry: %w", err)
	}

	infos := make([]StoryInfo, 0, len(stories.Stories))
	for _, id := range stories.IDs() {
		entry := stories.Stories[id]
		cached, err := h.store.ListChapters(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("listing chapters for %s: %w", id, err)
		}
		infos = append(infos, StoryInfo{
			ID:        id,
			Title:     entry.Title,
			SourceURL: entry.SourceURL,
			Chapters:  entry.Chapters,
			Cached:    len(cached),
		})
	}
	return infos, nil
}

// HandleGet resolves one registry entry.
func (h *StoryHandler) HandleGet(ctx context.Context, storyID string) (*StoryInfo, error) {
	stories, err := config.LoadStories(h.basePath)
	if err != nil {
		return nil, fmt.Errorf("loading story registry: %w", err)
	}
	entry, err := stories.Get(storyID)
	if err != nil {
		return nil, err
	}

	cached, err := h.store.ListChapters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing chapters for %s: %w", storyID, err)
	}
	return &StoryInfo{
		ID:        storyID,
		Title:     entry.Title,
		SourceURL: entry.SourceURL,
		Chapters:  entry.Chapters,
		Cached:    len(cached),
	}, nil
}
