package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/mocks"
	"github.com/ersonp/novelstate/internal/domain/services"
)

func TestReanalyzeHandler_Handle(t *testing.T) {
	cache := services.NewChapterCacheService(mocks.NewChapterStore())
	ref := entities.ChapterRef{StoryID: "pham_nhan", Index: 1}
	require.NoError(t, cache.Freeze(t.Context(), ref, "c1", &entities.Snapshot{RealmTier: "sai tầng"}))

	fetcher := &mocks.ContentFetcher{}
	extractor := &mocks.StatsExtractor{Delta: &entities.Snapshot{RealmTier: "Luyện Khí tầng một"}}
	resolver := services.NewResolverService(cache, nil, fetcher, extractor, nil, quietLogger())
	handler := NewReanalyzeHandler(resolver)

	outcome, err := handler.Handle(t.Context(), ref)
	require.NoError(t, err)
	assert.True(t, outcome.Analyzed)
	assert.Equal(t, "Luyện Khí tầng một", outcome.Snapshot.RealmTier)

	// The frozen snapshot was replaced, from cached content, without a fetch.
	entry, err := cache.Get(t.Context(), ref)
	require.NoError(t, err)
	assert.Equal(t, "Luyện Khí tầng một", entry.Snapshot.RealmTier)
	assert.Zero(t, fetcher.Calls)
}
