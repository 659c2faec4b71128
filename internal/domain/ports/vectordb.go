package ports

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// VectorDB indexes snapshot entities for semantic search.
type VectorDB interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// SaveBatch upserts entity points with their embeddings. Points are
	// keyed by IndexedEntity.ID so re-indexing a story is idempotent.
	SaveBatch(ctx context.Context, ents []entities.IndexedEntity) error

	// Search returns the entities closest to the embedding, best first.
	Search(ctx context.Context, embedding []float32, storyID string, limit int) ([]entities.IndexedEntity, error)

	// DeleteStory removes all indexed entities for a story.
	DeleteStory(ctx context.Context, storyID string) error

	// Close releases the underlying connection.
	Close() error
}
