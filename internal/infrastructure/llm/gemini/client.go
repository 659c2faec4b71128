// Package gemini provides a StatsExtractor implementation using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

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

// Client implements the StatsExtractor interface using Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini extraction client.
func NewClient(ctx context.Context, cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := "gemini-2.0-flash"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
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

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractionPrompt)},
	}

	prompt := fmt.Sprintf("Known state before this chapter:\n%s\n\nChapter text:\n%s", priorJSON, chapterText)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyError(err)
	}

	content, err := responseText(resp)
	if err != nil {
		return nil, &ports.ExtractorError{Reason: ports.ExtractReasonMalformedResponse, Err: err}
	}

	var delta entities.Snapshot
	if err := json.Unmarshal([]byte(cleanJSONResponse(content)), &delta); err != nil {
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

// responseText pulls the text of the first candidate out of a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in response")
	}
	return sb.String(), nil
}

// classifyError maps Gemini API errors onto extraction failure reasons.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return &ports.ExtractorError{Reason: ports.ExtractReasonInvalidCredentials, Err: err}
		case 429:
			return &ports.ExtractorError{Reason: ports.ExtractReasonRateLimited, Err: err}
		}
	}
	return fmt.Errorf("calling Gemini: %w", err)
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
