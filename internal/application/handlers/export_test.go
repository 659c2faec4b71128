package handlers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/mocks"
	"github.com/ersonp/novelstate/internal/domain/services"
)

func TestExportHandler_Handle(t *testing.T) {
	cache := services.NewChapterCacheService(mocks.NewChapterStore())
	require.NoError(t, cache.Freeze(t.Context(), entities.ChapterRef{StoryID: "pham_nhan", Index: 1}, "c1",
		&entities.Snapshot{RealmTier: "Luyện Khí tầng một"}))
	require.NoError(t, cache.PutContent(t.Context(), entities.ChapterRef{StoryID: "pham_nhan", Index: 2}, "c2"))
	require.NoError(t, cache.SetStoryState(t.Context(), "pham_nhan", &entities.Snapshot{RealmTier: "Luyện Khí tầng một"}))

	handler := NewExportHandler(cache)
	export, err := handler.Handle(t.Context(), "pham_nhan")
	require.NoError(t, err)

	assert.Equal(t, "Luyện Khí tầng một", export.State.RealmTier)
	// Only analyzed chapters are exported; chapter 2 has content but no snapshot.
	require.Len(t, export.Chapters, 1)
	assert.Equal(t, "Luyện Khí tầng một", export.Chapters[1].RealmTier)
}

func TestExportHandler_HandleToFile(t *testing.T) {
	cache := services.NewChapterCacheService(mocks.NewChapterStore())
	require.NoError(t, cache.SetStoryState(t.Context(), "pham_nhan", &entities.Snapshot{RealmTier: "Trúc Cơ"}))

	path := filepath.Join(t.TempDir(), "export.json")
	handler := NewExportHandler(cache)
	require.NoError(t, handler.HandleToFile(t.Context(), "pham_nhan", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export StoryExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "pham_nhan", export.StoryID)
	assert.Equal(t, "Trúc Cơ", export.State.RealmTier)
}
