package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/novelstate/internal/domain/services"
)

// SyncHandler handles bulk push/pull of chapter state against the remote
// blob store.
type SyncHandler struct {
	bulk *services.BulkSyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(bulk *services.BulkSyncService) *SyncHandler {
	return &SyncHandler{bulk: bulk}
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	StoryID string
	Pushed  int
	Pulled  int
	Skipped int
}

// HandlePush uploads all locally cached chapters and the story state.
func (h *SyncHandler) HandlePush(ctx context.Context, storyID string) (*SyncResult, error) {
	pushed, err := h.bulk.Push(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("pushing story %s: %w", storyID, err)
	}
	return &SyncResult{StoryID: storyID, Pushed: pushed}, nil
}

// HandlePull downloads remote chapters not yet analyzed locally. Locally
// frozen chapters are never overwritten.
func (h *SyncHandler) HandlePull(ctx context.Context, storyID string) (*SyncResult, error) {
	pulled, skipped, err := h.bulk.Pull(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("pulling story %s: %w", storyID, err)
	}
	return &SyncResult{StoryID: storyID, Pulled: pulled, Skipped: skipped}, nil
}
