package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIProvider generates text through the OpenAI chat completions API.
type OpenAIProvider struct {
	model  string
	client openai.Client
}

// NewOpenAIProvider reads the API key from OPENAI_API_KEY.
func NewOpenAIProvider(model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{model: model, client: openai.NewClient()}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string, opts Options) (string, error) {
	ctx, cancel := withCallTimeout(ctx)
	defer cancel()

	ctx, span := otel.Tracer("textgen").Start(ctx, "openai.complete")
	defer span.End()
	span.SetAttributes(attribute.String("model", p.model))

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(opts.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}
	if opts.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(opts.FrequencyPenalty)
	}
	if opts.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(opts.PresencePenalty)
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		completion, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = fmt.Errorf("openai API error (attempt %d/%d): %w", attempt, maxRetries, err)
			if !isRetryable(err) || attempt == maxRetries {
				break
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= time.Duration(backoffMult)
			continue
		}

		if len(completion.Choices) == 0 {
			return "", nil
		}
		return completion.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

// isRetryable classifies rate limits and server-side failures as worth
// retrying; everything else (auth, bad request) fails immediately.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "server_error") ||
		strings.Contains(msg, "internal server error")
}

// NewProvider builds a provider from a backend name and model. Unknown
// backends error; this is configuration, not content, so it fails loudly.
func NewProvider(backend, model string) (Provider, error) {
	switch backend {
	case "anthropic", "":
		return NewAnthropicProvider(model), nil
	case "openai":
		return NewOpenAIProvider(model), nil
	default:
		return nil, fmt.Errorf("unknown textgen backend %q (want anthropic or openai)", backend)
	}
}
