// Package insight provides the optional operators.InsightGenerator used
// by the VIZ operator to request a natural-language summary of a card's
// backing table. The operator does not attach the summary to the card.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/dashql/dashql/internal/domain"
)

// OpenAIGenerator summarizes a visualization's table metadata into a
// short natural-language description via the OpenAI chat completion API.
// A summary is never required for a card to render, so callers should
// treat a generation failure as non-fatal.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator returns a generator using apiKey. If model is empty,
// "gpt-4o-mini" is used.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) Summarize(ctx context.Context, meta domain.TableMetadata) (string, error) {
	prompt := buildPrompt(meta)

	log.Debug().Str("table", meta.Name.Key()).Msg("requesting visualization insight from OpenAI")

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai insight request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai insight request returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Debug().Str("table", meta.Name.Key()).Dur("latency", time.Since(start)).Msg("received visualization insight")
	return content, nil
}

func buildPrompt(meta domain.TableMetadata) string {
	var cols strings.Builder
	for i, c := range meta.Columns {
		if i > 0 {
			cols.WriteString(", ")
		}
		fmt.Fprintf(&cols, "%s (%s)", c.Name.Key(), columnTypeName(c.Type))
	}
	return fmt.Sprintf(
		"Write a one-sentence summary of a dashboard table named %q with %d rows and columns: %s.",
		meta.Name.Key(), meta.RowCount, cols.String(),
	)
}

func columnTypeName(t domain.ColumnType) string {
	switch t {
	case domain.ColumnTypeBoolean:
		return "boolean"
	case domain.ColumnTypeInt64:
		return "integer"
	case domain.ColumnTypeFloat64:
		return "float"
	case domain.ColumnTypeVarchar:
		return "text"
	case domain.ColumnTypeDate:
		return "date"
	case domain.ColumnTypeTime:
		return "time"
	case domain.ColumnTypeTimestamp:
		return "timestamp"
	case domain.ColumnTypeBlob:
		return "blob"
	default:
		return "unknown"
	}
}
