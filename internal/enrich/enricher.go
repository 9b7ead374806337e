// Package enrich condenses long ticket descriptions into short context
// blurbs with an LLM. Enrichment is best-effort: any failure falls back to
// the raw description so a flaky model endpoint can never fail a request.
package enrich

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/clintrovert/tricorder/pkg/types"
)

// Enricher uses OpenAI to condense ticket descriptions
type Enricher struct {
	client *openai.Client
	logger *zap.Logger
	model  string
}

// NewEnricher creates a new enricher
func NewEnricher(apiKey, model string, logger *zap.Logger) *Enricher {
	client := openai.NewClient(apiKey)

	if model == "" {
		model = openai.GPT4oMini
	}

	return &Enricher{
		client: client,
		logger: logger,
		model:  model,
	}
}

// Condense returns a 2-3 sentence condensation of the ticket description,
// or an empty string when there is nothing to condense or the model call
// fails.
func (e *Enricher) Condense(ctx context.Context, summary *types.TicketSummary) string {
	if strings.TrimSpace(summary.Description) == "" {
		return ""
	}

	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You condense Jira ticket descriptions into 2-3 sentences of essential context for a developer working on the ticket. Reply with the condensed text only.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: e.buildPrompt(summary),
				},
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		e.logger.Warn("failed to condense description",
			zap.String("key", summary.Key),
			zap.Error(err),
		)
		return ""
	}

	if len(resp.Choices) == 0 {
		return ""
	}

	condensed := strings.TrimSpace(resp.Choices[0].Message.Content)
	e.logger.Debug("condensed description",
		zap.String("key", summary.Key),
		zap.Int("length", len(condensed)),
	)

	return condensed
}

func (e *Enricher) buildPrompt(summary *types.TicketSummary) string {
	var sb strings.Builder

	sb.WriteString("**Ticket:** " + summary.Key + "\n")
	sb.WriteString("**Summary:** " + summary.Summary + "\n")
	if summary.Status != "" {
		sb.WriteString("**Status:** " + summary.Status + "\n")
	}
	sb.WriteString("**Description:**\n")
	sb.WriteString(summary.Description)

	return sb.String()
}
