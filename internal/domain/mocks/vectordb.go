package mocks

import (
	"context"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

// VectorDB is a mock implementation of ports.VectorDB.
type VectorDB struct {
	// Saved accumulates everything passed to SaveBatch.
	Saved []entities.IndexedEntity

	// Results is returned from Search.
	Results []entities.IndexedEntity

	SaveErr   error
	SearchErr error
}

// EnsureCollection is a no-op.
func (m *VectorDB) EnsureCollection(_ context.Context, _ uint64) error { return nil }

// SaveBatch records the saved entities.
func (m *VectorDB) SaveBatch(_ context.Context, ents []entities.IndexedEntity) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, ents...)
	return nil
}

// Search returns the configured results, capped at limit.
func (m *VectorDB) Search(_ context.Context, _ []float32, storyID string, limit int) ([]entities.IndexedEntity, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	results := m.Results
	if storyID != "" {
		filtered := make([]entities.IndexedEntity, 0, len(results))
		for _, e := range results {
			if e.StoryID == storyID {
				filtered = append(filtered, e)
			}
		}
		results = filtered
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteStory removes saved entities for a story.
func (m *VectorDB) DeleteStory(_ context.Context, storyID string) error {
	kept := m.Saved[:0]
	for _, e := range m.Saved {
		if e.StoryID != storyID {
			kept = append(kept, e)
		}
	}
	m.Saved = kept
	return nil
}

// Close is a no-op.
func (m *VectorDB) Close() error { return nil }
