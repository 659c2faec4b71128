package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/services"
)

// ExportHandler handles exporting story state for inspection or backup.
type ExportHandler struct {
	cache *services.ChapterCacheService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(cache *services.ChapterCacheService) *ExportHandler {
	return &ExportHandler{cache: cache}
}

// StoryExport is the serialized form of one story's local state.
type StoryExport struct {
	StoryID  string                     `json:"story_id"`
	State    *entities.Snapshot         `json:"state,omitempty"`
	Chapters map[int]*entities.Snapshot `json:"chapters,omitempty"`
}

// Handle collects the story's cumulative state and every frozen chapter
// snapshot. Chapter content is deliberately excluded from exports.
func (h *ExportHandler) Handle(ctx context.Context, storyID string) (*StoryExport, error) {
	state, err := h.cache.StoryState(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story state: %w", err)
	}

	indexes, err := h.cache.ListChapters(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}

	export := &StoryExport{
		StoryID:  storyID,
		State:    state,
		Chapters: make(map[int]*entities.Snapshot),
	}
	for _, idx := range indexes {
		entry, err := h.cache.Get(ctx, entities.ChapterRef{StoryID: storyID, Index: idx})
		if err != nil {
			return nil, fmt.Errorf("loading chapter %d: %w", idx, err)
		}
		if entry.Analyzed() {
			export.Chapters[idx] = entry.Snapshot
		}
	}
	return export, nil
}

// HandleToFile writes the export as indented JSON.
func (h *ExportHandler) HandleToFile(ctx context.Context, storyID, path string) error {
	export, err := h.Handle(ctx, storyID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
