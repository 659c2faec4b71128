// Package openai provides the embedding client backing entity search.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

// VectorSize is the dimension of text-embedding-3-small vectors and the
// width of the search collection.
const VectorSize = 1536

// maxBatchTexts caps how many entity texts go into one embedding request.
// Indexing a late-chapter snapshot embeds every tracked item, skill, NPC,
// faction and location in a single IndexSnapshot call, which can run to
// hundreds of texts.
const maxBatchTexts = 128

// Embedder generates entity and query embeddings via the OpenAI API.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbedder creates a new OpenAI embedder.
func NewEmbedder(cfg config.EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := openai.SmallEmbedding3
	if cfg.Model != "" {
		model = openai.EmbeddingModel(cfg.Model)
	}

	return &Embedder{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Embed generates the embedding for a single search query.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.New("no embeddings returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for the given texts, in order. Large
// batches are split across requests; the result always has one vector
// per input text.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for _, chunk := range splitBatch(texts, maxBatchTexts) {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: e.model,
			Input: chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embeddings: %w", err)
		}
		if len(resp.Data) != len(chunk) {
			return nil, fmt.Errorf("embedding response has %d vectors for %d texts", len(resp.Data), len(chunk))
		}
		for _, data := range resp.Data {
			if len(data.Embedding) != VectorSize {
				return nil, fmt.Errorf("embedding has dimension %d, collection expects %d", len(data.Embedding), VectorSize)
			}
			embeddings = append(embeddings, data.Embedding)
		}
	}
	return embeddings, nil
}

// splitBatch slices texts into chunks of at most size elements.
func splitBatch(texts []string, size int) [][]string {
	var chunks [][]string
	for len(texts) > size {
		chunks = append(chunks, texts[:size])
		texts = texts[size:]
	}
	return append(chunks, texts)
}
