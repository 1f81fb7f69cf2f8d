package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var claudeModels = map[string]string{
	"haiku":  "claude-haiku-4-5-20251001",
	"sonnet": "claude-sonnet-4-5-20250929",
}

// AnthropicProvider generates text through the Claude API.
type AnthropicProvider struct {
	model  string
	client anthropic.Client
}

// NewAnthropicProvider accepts a short model alias ("haiku", "sonnet") or a
// full model ID. The API key comes from ANTHROPIC_API_KEY.
func NewAnthropicProvider(model string) *AnthropicProvider {
	if id, ok := claudeModels[model]; ok {
		model = id
	}
	if model == "" {
		model = claudeModels["haiku"]
	}
	return &AnthropicProvider{model: model, client: anthropic.NewClient()}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, system, prompt string, opts Options) (string, error) {
	ctx, cancel := withCallTimeout(ctx)
	defer cancel()

	ctx, span := otel.Tracer("textgen").Start(ctx, "anthropic.complete")
	defer span.End()
	span.SetAttributes(attribute.String("model", p.model))

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	// The Claude API caps temperature at 1.0; the raw pass asks for 1.2.
	temp := opts.Temperature
	if temp > 1.0 {
		temp = 1.0
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(p.model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(temp),
			System: []anthropic.TextBlockParam{
				{Text: system},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			lastErr = fmt.Errorf("claude API error (attempt %d/%d): %w", attempt, maxRetries, err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= time.Duration(backoffMult)
			}
			continue
		}

		return extractText(message), nil
	}

	return "", lastErr
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
