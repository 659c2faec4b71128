package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(":memory:")
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository("")
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	tables := []string{"chapter_cache", "story_state"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Chapters(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("miss returns nil", func(t *testing.T) {
		entry, err := repo.GetChapter(ctx, "pham_nhan", 1)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("content only round trip", func(t *testing.T) {
		err := repo.PutChapter(ctx, "pham_nhan", 1, &entities.ChapterEntry{Content: "Hàn Lập nhìn quanh."})
		require.NoError(t, err)

		entry, err := repo.GetChapter(ctx, "pham_nhan", 1)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Hàn Lập nhìn quanh.", entry.Content)
		assert.False(t, entry.Analyzed())
	})

	t.Run("snapshot round trip", func(t *testing.T) {
		entry := &entities.ChapterEntry{
			Content: "Hàn Lập đột phá Luyện Khí tầng ba.",
			Snapshot: &entities.Snapshot{
				RealmTier: "Luyện Khí tầng ba",
				Skills: []entities.NamedEntity{
					{Name: "Trường Xuân Công", Status: entities.StatusActive},
				},
			},
		}
		err := repo.PutChapter(ctx, "pham_nhan", 2, entry)
		require.NoError(t, err)

		got, err := repo.GetChapter(ctx, "pham_nhan", 2)
		require.NoError(t, err)
		require.True(t, got.Analyzed())
		assert.Equal(t, "Luyện Khí tầng ba", got.Snapshot.RealmTier)
		require.Len(t, got.Snapshot.Skills, 1)
		assert.Equal(t, "Trường Xuân Công", got.Snapshot.Skills[0].Name)
	})

	t.Run("overwrite replaces entry", func(t *testing.T) {
		err := repo.PutChapter(ctx, "pham_nhan", 1, &entities.ChapterEntry{
			Content:  "bản dịch mới",
			Snapshot: &entities.Snapshot{RealmTier: "Luyện Khí tầng một"},
		})
		require.NoError(t, err)

		got, err := repo.GetChapter(ctx, "pham_nhan", 1)
		require.NoError(t, err)
		assert.Equal(t, "bản dịch mới", got.Content)
		assert.True(t, got.Analyzed())
	})

	t.Run("nil entry rejected", func(t *testing.T) {
		err := repo.PutChapter(ctx, "pham_nhan", 3, nil)
		require.Error(t, err)
	})

	t.Run("list ascending per story", func(t *testing.T) {
		require.NoError(t, repo.PutChapter(ctx, "pham_nhan", 10, &entities.ChapterEntry{Content: "c10"}))
		require.NoError(t, repo.PutChapter(ctx, "dau_pha", 1, &entities.ChapterEntry{Content: "other"}))

		indexes, err := repo.ListChapters(ctx, "pham_nhan")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 10}, indexes)
	})

	t.Run("delete chapter", func(t *testing.T) {
		err := repo.DeleteChapter(ctx, "pham_nhan", 10)
		require.NoError(t, err)

		entry, err := repo.GetChapter(ctx, "pham_nhan", 10)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})
}

func TestRepository_StoryState(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("missing returns nil", func(t *testing.T) {
		state, err := repo.GetStoryState(ctx, "pham_nhan")
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("round trip and overwrite", func(t *testing.T) {
		err := repo.PutStoryState(ctx, "pham_nhan", &entities.Snapshot{RealmTier: "Luyện Khí tầng ba"})
		require.NoError(t, err)

		err = repo.PutStoryState(ctx, "pham_nhan", &entities.Snapshot{RealmTier: "Luyện Khí tầng bốn"})
		require.NoError(t, err)

		state, err := repo.GetStoryState(ctx, "pham_nhan")
		require.NoError(t, err)
		assert.Equal(t, "Luyện Khí tầng bốn", state.RealmTier)
	})

	t.Run("nil snapshot rejected", func(t *testing.T) {
		err := repo.PutStoryState(ctx, "pham_nhan", nil)
		require.Error(t, err)
	})
}

func TestRepository_DeleteStory(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutChapter(ctx, "pham_nhan", 1, &entities.ChapterEntry{Content: "c1"}))
	require.NoError(t, repo.PutChapter(ctx, "dau_pha", 1, &entities.ChapterEntry{Content: "c1"}))
	require.NoError(t, repo.PutStoryState(ctx, "pham_nhan", &entities.Snapshot{RealmTier: "Trúc Cơ"}))

	require.NoError(t, repo.DeleteStory(ctx, "pham_nhan"))

	indexes, err := repo.ListChapters(ctx, "pham_nhan")
	require.NoError(t, err)
	assert.Empty(t, indexes)

	state, err := repo.GetStoryState(ctx, "pham_nhan")
	require.NoError(t, err)
	assert.Nil(t, state)

	// Other stories untouched.
	indexes, err = repo.ListChapters(ctx, "dau_pha")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indexes)
}
