// Package textgen is the boundary to the external text-completion service.
// The pipeline treats providers as opaque: one prompt in, one string out.
// Callers must tolerate empty responses; providers must not hang forever,
// so every call carries an explicit deadline.
package textgen

import (
	"context"
	"time"
)

// Options is the sampling parameter bag for one completion call.
type Options struct {
	Temperature      float64
	MaxTokens        int64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Provider is a single-call text completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string, opts Options) (string, error)
}

const (
	// defaultCallTimeout bounds a single completion call. The upstream
	// clients have their own transport timeouts but nothing end-to-end.
	defaultCallTimeout = 90 * time.Second

	maxRetries     = 3
	initialBackoff = 1 * time.Second
	backoffMult    = 2
)

func withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultCallTimeout)
}
