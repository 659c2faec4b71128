package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/mocks"
)

func TestSearchService_IndexSnapshot(t *testing.T) {
	ctx := context.Background()
	vectorDB := &mocks.VectorDB{}
	embedder := &mocks.Embedder{Vector: []float32{0.1, 0.2}}
	svc := NewSearchService(vectorDB, embedder)

	snapshot := &entities.Snapshot{
		Inventory: []entities.NamedEntity{{Name: "Hồi Xuân Đan", Description: "đan dược", Status: entities.StatusActive}},
		NPCs:      []entities.NamedEntity{{Name: "Vương Nhị", Description: "bạn"}},
		Locations: []entities.Location{{Name: "Thanh Vân Môn"}},
	}

	count, err := svc.IndexSnapshot(ctx, "s1", snapshot)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, vectorDB.Saved, 3)

	assert.Equal(t, entities.CategoryInventory, vectorDB.Saved[0].Category)
	assert.Equal(t, []float32{0.1, 0.2}, vectorDB.Saved[0].Embedding)
	assert.Equal(t, "Hồi Xuân Đan đan dược", embedder.Texts[0])
}

func TestSearchService_IndexIsIdempotentByID(t *testing.T) {
	ctx := context.Background()
	vectorDB := &mocks.VectorDB{}
	embedder := &mocks.Embedder{Vector: []float32{0.5}}
	svc := NewSearchService(vectorDB, embedder)

	snapshot := &entities.Snapshot{NPCs: []entities.NamedEntity{{Name: "Vương Nhị"}}}
	_, err := svc.IndexSnapshot(ctx, "s1", snapshot)
	require.NoError(t, err)

	// Same entity under a different case yields the same point ID, so the
	// vector store upserts instead of duplicating.
	recased := &entities.Snapshot{NPCs: []entities.NamedEntity{{Name: "VƯƠNG NHỊ"}}}
	_, err = svc.IndexSnapshot(ctx, "s1", recased)
	require.NoError(t, err)

	require.Len(t, vectorDB.Saved, 2)
	assert.Equal(t, vectorDB.Saved[0].ID, vectorDB.Saved[1].ID)
}

func TestSearchService_IndexSkipsBlankNamesAndEmptySnapshots(t *testing.T) {
	ctx := context.Background()
	vectorDB := &mocks.VectorDB{}
	svc := NewSearchService(vectorDB, &mocks.Embedder{Vector: []float32{1}})

	count, err := svc.IndexSnapshot(ctx, "s1", &entities.Snapshot{
		NPCs: []entities.NamedEntity{{Name: "   "}},
	})
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.IndexSnapshot(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, vectorDB.Saved)
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()
	vectorDB := &mocks.VectorDB{Results: []entities.IndexedEntity{
		{StoryID: "s1", Name: "Vương Nhị", Category: entities.CategoryNPC},
		{StoryID: "s2", Name: "Khác Truyện", Category: entities.CategoryNPC},
	}}
	embedder := &mocks.Embedder{Vector: []float32{0.9}}
	svc := NewSearchService(vectorDB, embedder)

	results, err := svc.Search(ctx, "s1", "kẻ phản bội", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Vương Nhị", results[0].Name)
	assert.Equal(t, []string{"kẻ phản bội"}, embedder.Texts)
}
