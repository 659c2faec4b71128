// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// defaultCollection is used when no collection name is configured.
const defaultCollection = "novelstate_entities"

// Repository implements the VectorDB interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// SaveBatch upserts entity points with their embeddings. Point IDs come
// from IndexedEntity.ID, so re-indexing overwrites rather than duplicates.
func (r *Repository) SaveBatch(ctx context.Context, ents []entities.IndexedEntity) error {
	if len(ents) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(ents))
	for _, ent := range ents {
		point := &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{
					Uuid: ent.ID,
				},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: ent.Embedding,
					},
				},
			},
			Payload: map[string]*pb.Value{
				"story_id":    {Kind: &pb.Value_StringValue{StringValue: ent.StoryID}},
				"category":    {Kind: &pb.Value_StringValue{StringValue: string(ent.Category)}},
				"name":        {Kind: &pb.Value_StringValue{StringValue: ent.Name}},
				"description": {Kind: &pb.Value_StringValue{StringValue: ent.Description}},
				"status":      {Kind: &pb.Value_StringValue{StringValue: ent.Status}},
			},
		}
		points = append(points, point)
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// Search returns the entities closest to the embedding within one story.
func (r *Repository) Search(ctx context.Context, embedding []float32, storyID string, limit int) ([]entities.IndexedEntity, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		Filter:         storyFilter(storyID),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	ents := make([]entities.IndexedEntity, 0, len(resp.Result))
	for _, point := range resp.Result {
		ent := entities.IndexedEntity{
			ID:          point.Id.GetUuid(),
			StoryID:     getStringValue(point.Payload, "story_id"),
			Category:    entities.EntityCategory(getStringValue(point.Payload, "category")),
			Name:        getStringValue(point.Payload, "name"),
			Description: getStringValue(point.Payload, "description"),
			Status:      getStringValue(point.Payload, "status"),
		}
		ents = append(ents, ent)
	}

	return ents, nil
}

// DeleteStory removes all indexed entities for a story.
func (r *Repository) DeleteStory(ctx context.Context, storyID string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: storyFilter(storyID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting story points: %w", err)
	}

	return nil
}

// storyFilter builds the Qdrant filter matching one story's points.
func storyFilter(storyID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "story_id",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{
								Keyword: storyID,
							},
						},
					},
				},
			},
		},
	}
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
