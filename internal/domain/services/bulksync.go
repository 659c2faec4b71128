package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
)

// BulkSyncService reconciles the local chapter cache with the remote
// blob store in bulk, for moving a story between devices.
type BulkSyncService struct {
	cache  *ChapterCacheService
	remote ports.BlobStore
	logger *slog.Logger
}

// NewBulkSyncService creates a new BulkSyncService.
func NewBulkSyncService(cache *ChapterCacheService, remote ports.BlobStore, logger *slog.Logger) *BulkSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkSyncService{cache: cache, remote: remote, logger: logger}
}

// Push uploads every cached chapter entry and the story-level state.
// Returns the number of chapters pushed.
func (s *BulkSyncService) Push(ctx context.Context, storyID string) (int, error) {
	indexes, err := s.cache.ListChapters(ctx, storyID)
	if err != nil {
		return 0, fmt.Errorf("listing cached chapters: %w", err)
	}

	pushed := 0
	for _, idx := range indexes {
		ref := entities.ChapterRef{StoryID: storyID, Index: idx}
		entry, err := s.cache.Get(ctx, ref)
		if err != nil {
			return pushed, fmt.Errorf("reading chapter %d: %w", idx, err)
		}
		if entry == nil {
			continue
		}
		blob, err := json.Marshal(entry)
		if err != nil {
			return pushed, fmt.Errorf("encoding chapter %d: %w", idx, err)
		}
		if err := s.remote.Put(ctx, ports.ChapterBlobKey(storyID, idx), blob); err != nil {
			return pushed, fmt.Errorf("pushing chapter %d: %w", idx, err)
		}
		pushed++
	}

	state, err := s.cache.StoryState(ctx, storyID)
	if err != nil {
		return pushed, fmt.Errorf("reading story state: %w", err)
	}
	if !state.IsEmpty() {
		blob, err := json.Marshal(state)
		if err != nil {
			return pushed, fmt.Errorf("encoding story state: %w", err)
		}
		if err := s.remote.Put(ctx, ports.StoryBlobKey(storyID), blob); err != nil {
			return pushed, fmt.Errorf("pushing story state: %w", err)
		}
	}

	return pushed, nil
}

// Pull downloads remote chapter entries for a story. A local chapter
// holding a frozen snapshot always wins over the remote copy, mirroring
// the resolver's local-first priority; everything else is adopted.
// Returns chapters pulled and chapters skipped in favor of local state.
func (s *BulkSyncService) Pull(ctx context.Context, storyID string) (pulled, skipped int, err error) {
	keys, err := s.remote.List(ctx, ports.StoryBlobPrefix(storyID))
	if err != nil {
		return 0, 0, fmt.Errorf("listing remote blobs: %w", err)
	}

	for _, key := range keys {
		_, idx, ok := ports.ParseChapterBlobKey(key)
		if !ok {
			continue
		}
		ref := entities.ChapterRef{StoryID: storyID, Index: idx}

		local, err := s.cache.Get(ctx, ref)
		if err != nil {
			return pulled, skipped, fmt.Errorf("reading local chapter %d: %w", idx, err)
		}
		if local.Analyzed() {
			skipped++
			continue
		}

		blob, err := s.remote.Get(ctx, key)
		if err != nil {
			return pulled, skipped, fmt.Errorf("pulling chapter %d: %w", idx, err)
		}
		if blob == nil {
			continue
		}
		var entry entities.ChapterEntry
		if err := json.Unmarshal(blob, &entry); err != nil {
			s.logger.Warn("skipping malformed remote blob", "key", key, "error", err)
			continue
		}

		if entry.Snapshot != nil {
			err = s.cache.Freeze(ctx, ref, entry.Content, entry.Snapshot)
		} else {
			err = s.cache.PutContent(ctx, ref, entry.Content)
		}
		if err != nil {
			return pulled, skipped, fmt.Errorf("storing chapter %d: %w", idx, err)
		}
		pulled++
	}

	return pulled, skipped, nil
}
