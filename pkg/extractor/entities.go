package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
)

// taggerInputLimit bounds how much content is sent per tagging request.
const taggerInputLimit = 1200

// Tagger labels entities in extracted content. Tagging is best-effort:
// a failure leaves the memory without entities and never fails indexing.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]memory.Entity, error)
}

// AnthropicTagger tags entities using the Anthropic API.
type AnthropicTagger struct {
	client anthropic.Client
	model  string
}

// NewAnthropicTagger creates an entity tagger. The API key is required.
func NewAnthropicTagger(apiKey, model string) (*AnthropicTagger, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	return &AnthropicTagger{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

const taggerPrompt = `Extract named entities from the text. Respond with only a JSON array, no prose. Each element: {"type": "person"|"location"|"organization"|"date", "text": "<entity text>"}. Return [] if none.`

// Tag sends a bounded excerpt of the text for entity labeling.
func (t *AnthropicTagger) Tag(ctx context.Context, text string) ([]memory.Entity, error) {
	text = truncateRunes(text, taggerInputLimit)
	if text == "" {
		return nil, nil
	}

	response, err := t.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: taggerPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("entity tagging failed: %w", err)
	}

	var raw strings.Builder
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			raw.WriteString(b.Text)
		}
	}

	return parseEntities(raw.String())
}

// parseEntities decodes the model's JSON array, normalizing unknown kinds.
func parseEntities(raw string) ([]memory.Entity, error) {
	raw = strings.TrimSpace(raw)
	// Tolerate fenced output.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return nil, nil
	}

	var decoded []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse entities: %w", err)
	}

	entities := make([]memory.Entity, 0, len(decoded))
	for _, d := range decoded {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		entities = append(entities, memory.Entity{
			Type: memory.NormalizeEntityKind(d.Type),
			Text: d.Text,
		})
	}
	return entities, nil
}
