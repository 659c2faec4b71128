package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
)

// SearchService indexes snapshot entities for semantic lookup across a
// story's accumulated state.
type SearchService struct {
	vectorDB ports.VectorDB
	embedder ports.Embedder
}

// NewSearchService creates a new SearchService.
func NewSearchService(vectorDB ports.VectorDB, embedder ports.Embedder) *SearchService {
	return &SearchService{vectorDB: vectorDB, embedder: embedder}
}

// IndexSnapshot embeds and upserts every named entity of the snapshot.
// Point IDs are derived deterministically from (story, category, key), so
// re-indexing after each chapter overwrites rather than duplicates.
func (s *SearchService) IndexSnapshot(ctx context.Context, storyID string, snapshot *entities.Snapshot) (int, error) {
	ents := collectIndexable(storyID, snapshot)
	if len(ents) == 0 {
		return 0, nil
	}

	texts := make([]string, len(ents))
	for i := range ents {
		texts[i] = ents[i].SearchText()
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("generating embeddings: %w", err)
	}
	if len(embeddings) != len(ents) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(ents))
	}
	for i := range ents {
		ents[i].Embedding = embeddings[i]
	}

	if err := s.vectorDB.SaveBatch(ctx, ents); err != nil {
		return 0, fmt.Errorf("saving entities: %w", err)
	}
	return len(ents), nil
}

// Search returns the indexed entities closest to the query, best first.
func (s *SearchService) Search(ctx context.Context, storyID, query string, limit int) ([]entities.IndexedEntity, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	results, err := s.vectorDB.Search(ctx, embedding, storyID, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	return results, nil
}

// DeleteStory removes all indexed entities for a story.
func (s *SearchService) DeleteStory(ctx context.Context, storyID string) error {
	return s.vectorDB.DeleteStory(ctx, storyID)
}

func collectIndexable(storyID string, snapshot *entities.Snapshot) []entities.IndexedEntity {
	if snapshot == nil {
		return nil
	}

	var out []entities.IndexedEntity
	add := func(category entities.EntityCategory, name, description, status string) {
		key := entities.NormalizeName(name)
		if key == "" {
			return
		}
		out = append(out, entities.IndexedEntity{
			ID:          pointID(storyID, category, key),
			StoryID:     storyID,
			Category:    category,
			Name:        name,
			Description: description,
			Status:      status,
		})
	}

	lists := []struct {
		category entities.EntityCategory
		items    []entities.NamedEntity
	}{
		{entities.CategoryInventory, snapshot.Inventory},
		{entities.CategorySkill, snapshot.Skills},
		{entities.CategoryEquipment, snapshot.Equipment},
		{entities.CategoryNPC, snapshot.NPCs},
		{entities.CategoryFaction, snapshot.Factions},
	}
	for _, list := range lists {
		for _, e := range list.items {
			add(list.category, e.Name, e.Description, string(e.Status))
		}
	}
	for _, l := range snapshot.Locations {
		add(entities.CategoryLocation, l.Name, l.Description, string(l.Status))
	}

	return out
}

// pointID derives a stable UUID for one indexed entity.
func pointID(storyID string, category entities.EntityCategory, key string) string {
	name := storyID + "/" + string(category) + "/" + key
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
