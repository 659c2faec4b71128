// Package openai provides a StatsExtractor implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/novelstate/internal/domain/entities"
	"github.com/ersonp/novelstate/internal/domain/ports"
	"github.com/ersonp/novelstate/internal/infrastructure/config"
)

const extractionPrompt = `You are a story-state extractor for serialized web novels. Given one chapter of a novel and the protagonist's state as known before this chapter, report ONLY what this chapter newly reveals or changes.

Return a JSON object with this shape (every field optional, omit anything the chapter does not touch):
{
  "status": {"name": "...", "traits": [{"name": "...", "description": "..."}]},
  "realmTier": "current cultivation/power tier, only if it changed",
  "realmSystem": ["full ordered list of tiers, only if the chapter reveals more of it than already known"],
  "inventory": [{"name": "...", "description": "...", "status": "active|used|lost|dead|destroyed"}],
  "skills": [...same shape...],
  "equipment": [...same shape...],
  "npcs": [...same shape...],
  "factions": [...same shape...],
  "locations": [{"name": "...", "description": "...", "tier": "...", "parentName": "..."}],
  "currentLocationName": "where the protagonist is at chapter end, if stated",
  "relationships": [{"subjectA": "...", "subjectB": "...", "description": "allies / sworn enemies / master and disciple, etc."}]
}

Rules:
- Omitted fields mean "nothing new", never "this was removed". To mark an item gone, include it with status "lost", "used", "dead" or "destroyed".
- Use the exact names already present in the prior state when referring to known entities, even if the chapter uses a nickname.
- "parentName" must exactly match the name of another location when the chapter states containment.
- Return ONLY the JSON object, no other text.`

// Client implements the StatsExtractor interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI extraction client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Extract derives the chapter's state delta from its text, with the prior
// snapshot passed as context so the model reports only changes.
func (c *Client) Extract(ctx context.Context, chapterText string, prior *entities.Snapshot) (*entities.Snapshot, error) {
	priorJSON := []byte("{}")
	if !prior.IsEmpty() {
		var err error
		priorJSON, err = json.Marshal(prior)
		if err != nil {
			return nil, fmt.Errorf("marshaling prior state: %w", err)
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Known state before this chapter:\n%s\n\nChapter text:\n%s", priorJSON, chapterText),
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ports.ExtractorError{
			Reason: ports.ExtractReasonMalformedResponse,
			Err:    errors.New("no response from OpenAI"),
		}
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var delta entities.Snapshot
	if err := json.Unmarshal([]byte(content), &delta); err != nil {
		return nil, &ports.ExtractorError{
			Reason: ports.ExtractReasonMalformedResponse,
			Err:    fmt.Errorf("parsing delta JSON: %w (response: %s)", err, content),
		}
	}

	if delta.IsEmpty() {
		return nil, nil
	}
	return &delta, nil
}

// classifyError maps OpenAI API errors onto extraction failure reasons.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return &ports.ExtractorError{Reason: ports.ExtractReasonInvalidCredentials, Err: err}
		case 429:
			return &ports.ExtractorError{Reason: ports.ExtractReasonRateLimited, Err: err}
		}
	}
	return fmt.Errorf("calling OpenAI: %w", err)
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
