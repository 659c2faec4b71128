package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
)

// ErrStaleNavigation marks a chapter-open flow whose result was discarded
// because a newer navigation superseded it. Nothing was persisted.
var ErrStaleNavigation = errors.New("superseded by a newer navigation")

// OpenSource identifies which source won the multi-source resolution.
type OpenSource string

const (
	SourceLocal   OpenSource = "local"
	SourceRemote  OpenSource = "remote"
	SourceFetched OpenSource = "fetched"
)

// OpenResult is the outcome of a chapter-open flow.
type OpenResult struct {
	Ref      entities.ChapterRef
	Content  string
	Snapshot *entities.Snapshot
	Source   OpenSource

	// Analyzed is true when the snapshot was computed during this call
	// rather than served frozen from a cache.
	Analyzed bool
}

// ResolverService drives the chapter-open state machine: local cache,
// then remote blob store, then fetch+extract, in strict priority order.
// The winning source is written back to the local cache and, for fresh
// analyses, pushed to the remote store in the background.
//
// Navigation is not reentrant: each Open bumps a generation counter, and
// any flow holding a stale generation discards its result instead of
// committing it. A slow analysis can therefore never clobber state for a
// chapter the user has navigated away from.
type ResolverService struct {
	cache     *ChapterCacheService
	remote    ports.BlobStore // nil when not authenticated
	fetcher   ports.ContentFetcher
	extractor ports.StatsExtractor
	sync      *SyncQueue // nil disables background push
	logger    *slog.Logger

	generation atomic.Uint64
}

// NewResolverService creates a new ResolverService. remote and sync may
// be nil when cloud sync is not configured.
func NewResolverService(
	cache *ChapterCacheService,
	remote ports.BlobStore,
	fetcher ports.ContentFetcher,
	extractor ports.StatsExtractor,
	sync *SyncQueue,
	logger *slog.Logger,
) *ResolverService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolverService{
		cache:     cache,
		remote:    remote,
		fetcher:   fetcher,
		extractor: extractor,
		sync:      sync,
		logger:    logger,
	}
}

// Open resolves a chapter for reading. A cached frozen snapshot is
// terminal: it is returned as-is with no fetch or analysis. Otherwise
// content is obtained (remote, then origin), analyzed against the prior
// chapter's frozen snapshot, and the merged result is frozen before the
// call returns.
//
// On extraction failure the returned result still carries the content
// (the chapter stays readable, just unanalyzed) alongside the error.
func (s *ResolverService) Open(ctx context.Context, ref entities.ChapterRef) (*OpenResult, error) {
	gen := s.generation.Add(1)

	// Step 1-2: local cache.
	entry, err := s.cache.Get(ctx, ref)
	if err != nil {
		// A broken local cache must not end the reading session; treat
		// as a miss and keep resolving.
		s.logger.Warn("local cache read failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		entry = nil
	}
	if entry.Analyzed() {
		return &OpenResult{Ref: ref, Content: entry.Content, Snapshot: entry.Snapshot, Source: SourceLocal}, nil
	}

	var content string
	source := SourceLocal
	switch {
	case entry != nil:
		content = entry.Content
	default:
		// Step 3: remote blob store.
		remoteEntry := s.tryRemote(ctx, ref)
		if s.stale(gen) {
			return nil, ErrStaleNavigation
		}
		if remoteEntry.Analyzed() {
			// Terminal: adopt the remote snapshot verbatim, no re-fetch,
			// no re-analysis.
			if err := s.cache.Freeze(ctx, ref, remoteEntry.Content, remoteEntry.Snapshot); err != nil {
				s.logger.Warn("caching remote entry failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
			}
			return &OpenResult{Ref: ref, Content: remoteEntry.Content, Snapshot: remoteEntry.Snapshot, Source: SourceRemote}, nil
		}
		if remoteEntry != nil {
			content = remoteEntry.Content
			source = SourceRemote
		} else {
			// Step 4: fetch from origin.
			fetched, err := s.fetcher.Fetch(ctx, ref)
			if err != nil {
				return nil, err
			}
			content = fetched
			source = SourceFetched
		}
		if s.stale(gen) {
			return nil, ErrStaleNavigation
		}
		if err := s.cache.PutContent(ctx, ref, content); err != nil {
			s.logger.Warn("caching content failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		}
	}

	// Step 5: analyze with the prior chapter's frozen snapshot.
	snapshot, err := s.analyze(ctx, ref, content, gen)
	if err != nil {
		if errors.Is(err, ErrStaleNavigation) {
			return nil, err
		}
		return &OpenResult{Ref: ref, Content: content, Source: source}, err
	}

	return &OpenResult{Ref: ref, Content: content, Snapshot: snapshot, Source: source, Analyzed: true}, nil
}

// Reanalyze recomputes a chapter's snapshot on explicit user request,
// overwriting the frozen value. Content comes from the local cache, or
// from the origin when the chapter was never cached.
func (s *ResolverService) Reanalyze(ctx context.Context, ref entities.ChapterRef) (*OpenResult, error) {
	gen := s.generation.Add(1)

	var content string
	entry, err := s.cache.Get(ctx, ref)
	if err == nil && entry != nil {
		content = entry.Content
	} else {
		fetched, ferr := s.fetcher.Fetch(ctx, ref)
		if ferr != nil {
			return nil, ferr
		}
		content = fetched
	}

	snapshot, err := s.analyze(ctx, ref, content, gen)
	if err != nil {
		if errors.Is(err, ErrStaleNavigation) {
			return nil, err
		}
		return &OpenResult{Ref: ref, Content: content, Source: SourceLocal}, err
	}
	return &OpenResult{Ref: ref, Content: content, Snapshot: snapshot, Source: SourceLocal, Analyzed: true}, nil
}

// ImportContent stores user-supplied chapter text, the manual fallback
// when fetching fails. The text is analyzed immediately.
func (s *ResolverService) ImportContent(ctx context.Context, ref entities.ChapterRef, content string) (*OpenResult, error) {
	gen := s.generation.Add(1)

	if err := s.cache.PutContent(ctx, ref, content); err != nil {
		s.logger.Warn("caching imported content failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
	}

	snapshot, err := s.analyze(ctx, ref, content, gen)
	if err != nil {
		if errors.Is(err, ErrStaleNavigation) {
			return nil, err
		}
		return &OpenResult{Ref: ref, Content: content, Source: SourceLocal}, err
	}
	return &OpenResult{Ref: ref, Content: content, Snapshot: snapshot, Source: SourceLocal, Analyzed: true}, nil
}

// analyze runs extraction and merge, freezes the result, updates the
// story-level display state and schedules the remote push. The snapshot
// is persisted before analyze returns: there is no window where analysis
// has "succeeded" but the frozen state is lost.
func (s *ResolverService) analyze(ctx context.Context, ref entities.ChapterRef, content string, gen uint64) (*entities.Snapshot, error) {
	prior, err := s.cache.PriorSnapshot(ctx, ref)
	if err != nil {
		s.logger.Warn("prior snapshot unavailable, analyzing from empty", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		prior = &entities.Snapshot{}
	}

	delta, err := s.extractor.Extract(ctx, content, prior)
	if err != nil {
		return nil, err
	}
	if s.stale(gen) {
		return nil, ErrStaleNavigation
	}

	// A nil delta means nothing new this chapter; the merge treats it as
	// an all-absent-fields delta.
	merged := MergeSnapshots(prior, delta)

	if !ValidateCurrentLocation(merged) {
		s.logger.Debug("current location not among known locations",
			"story", ref.StoryID, "chapter", ref.Index, "location", merged.CurrentLocationName)
	}

	if err := s.cache.Freeze(ctx, ref, content, merged); err != nil {
		// The chapter stays readable from memory; only persistence of
		// the frozen snapshot failed.
		s.logger.Warn("freezing snapshot failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
	}

	if err := s.cache.SetStoryState(ctx, ref.StoryID, merged); err != nil {
		s.logger.Warn("updating story state failed", "story", ref.StoryID, "error", err)
	}

	s.pushRemote(ref, content, merged)

	return merged, nil
}

// pushRemote schedules a fire-and-forget push of the frozen entry.
func (s *ResolverService) pushRemote(ref entities.ChapterRef, content string, snapshot *entities.Snapshot) {
	if s.remote == nil || s.sync == nil {
		return
	}
	blob, err := json.Marshal(entities.ChapterEntry{Content: content, Snapshot: snapshot})
	if err != nil {
		s.logger.Warn("encoding chapter for push failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		return
	}
	s.sync.Enqueue(ports.ChapterBlobKey(ref.StoryID, ref.Index), blob)
}

// tryRemote fetches the chapter's blob from the remote store. Any remote
// failure falls through to origin fetch; remote being down is never
// terminal.
func (s *ResolverService) tryRemote(ctx context.Context, ref entities.ChapterRef) *entities.ChapterEntry {
	if s.remote == nil {
		return nil
	}
	blob, err := s.remote.Get(ctx, ports.ChapterBlobKey(ref.StoryID, ref.Index))
	if err != nil {
		s.logger.Warn("remote fetch failed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		return nil
	}
	if blob == nil {
		return nil
	}
	var entry entities.ChapterEntry
	if err := json.Unmarshal(blob, &entry); err != nil {
		s.logger.Warn("remote blob malformed", "story", ref.StoryID, "chapter", ref.Index, "error", err)
		return nil
	}
	return &entry
}

func (s *ResolverService) stale(gen uint64) bool {
	return s.generation.Load() != gen
}
