// Package multipass runs the raw → authenticity → validation generation
// sequence for one content unit. Generation never fails past this boundary:
// the caller always gets a usable string, degraded to a hard-coded fallback
// in the worst case.
package multipass

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chad/threadsmith/internal/compose"
	"github.com/chad/threadsmith/internal/telemetry"
	"github.com/chad/threadsmith/internal/textgen"
)

const (
	// DefaultMaxAttempts bounds the outer retry loop.
	DefaultMaxAttempts = 2
	// acceptScore is the validator score needed for early acceptance.
	acceptScore = 70
	// fallbackScore is the quality attributed to fallback content.
	fallbackScore = 40

	rawTemperature        = 1.2
	authenticTemperature  = 0.9
	validationTemperature = 0.3
)

// fallbacks are the last-resort strings per content type, bland but
// syntactically valid.
var fallbacks = map[compose.ContentType]string{
	compose.ContentPost:    "been struggling with this lately and curious how other people handle it... what's actually worked for you?",
	compose.ContentComment: "been struggling with this lately too, following the thread",
	compose.ContentReply:   "yeah, same here honestly",
}

// Passes snapshots each stage's output for one accepted attempt.
type Passes struct {
	Raw       string `json:"raw"`
	Authentic string `json:"authentic"`
	Validated string `json:"validated"` // validator's raw response
}

// Metadata records how the generation went.
type Metadata struct {
	Attempts         int           `json:"attempts"`
	Duration         time.Duration `json:"duration"`
	PassedValidation bool          `json:"passed_validation"`
	UsedFallback     bool          `json:"used_fallback"`
}

// Result is the outcome of one multi-pass generation, consumed immediately
// by the designer.
type Result struct {
	FinalContent string
	Passes       Passes
	QualityScore int // validator's own 0-100
	Report       compose.ValidationReport
	Metadata     Metadata
}

// Controller orchestrates the three passes against a text provider.
type Controller struct {
	provider    textgen.Provider
	logger      *slog.Logger
	metrics     *telemetry.Metrics
	maxAttempts int
}

// NewController wires a controller. Logger must be non-nil; metrics may be
// nil.
func NewController(provider textgen.Provider, logger *slog.Logger, metrics *telemetry.Metrics) *Controller {
	return &Controller{
		provider:    provider,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: DefaultMaxAttempts,
	}
}

// WithMaxAttempts overrides the retry bound (minimum 1).
func (c *Controller) WithMaxAttempts(n int) *Controller {
	if n < 1 {
		n = 1
	}
	c.maxAttempts = n
	return c
}

// Generate runs up to maxAttempts of the three-pass sequence and returns
// the best content produced. It never returns an error: transient provider
// failures are retried, validator parse failures degrade to conservative
// defaults, and total failure yields the fallback string.
func (c *Controller) Generate(ctx context.Context, req compose.Request) *Result {
	start := time.Now()
	var best *Result

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		candidate, ok := c.attempt(ctx, req, attempt)
		if !ok {
			c.metrics.RecordAttempt(string(req.Type), "abandoned")
			continue
		}

		c.metrics.ObserveValidationScore(candidate.QualityScore)

		if candidate.Report.Pass && candidate.QualityScore >= acceptScore {
			c.metrics.RecordAttempt(string(req.Type), "accepted")
			candidate.Metadata.Attempts = attempt
			candidate.Metadata.Duration = time.Since(start)
			candidate.Metadata.PassedValidation = true
			c.observeDuration(start)
			return candidate
		}

		c.metrics.RecordAttempt(string(req.Type), "below_threshold")
		if best == nil || candidate.QualityScore > best.QualityScore {
			best = candidate
		}
	}

	if best != nil {
		best.Metadata.Attempts = c.maxAttempts
		best.Metadata.Duration = time.Since(start)
		best.Metadata.PassedValidation = false
		c.observeDuration(start)
		return best
	}

	// Nothing usable came back at all; degrade to the canned line.
	c.logger.WarnContext(ctx, "generation degraded to fallback",
		"content_type", req.Type, "attempts", c.maxAttempts)
	c.metrics.RecordFallback(string(req.Type))
	c.observeDuration(start)
	return &Result{
		FinalContent: fallbacks[req.Type],
		QualityScore: fallbackScore,
		Report:       compose.DefaultReport(),
		Metadata: Metadata{
			Attempts:         c.maxAttempts,
			Duration:         time.Since(start),
			PassedValidation: false,
			UsedFallback:     true,
		},
	}
}

// attempt runs one full raw → authenticity → validation sequence. ok is
// false when either generation pass came back empty or errored, which
// abandons the attempt.
func (c *Controller) attempt(ctx context.Context, req compose.Request, attempt int) (*Result, bool) {
	system := compose.SystemPrompt(req.Type)

	raw, err := c.provider.Complete(ctx, system, compose.UserPrompt(req), textgen.Options{
		Temperature:      rawTemperature,
		FrequencyPenalty: 0.4,
		PresencePenalty:  0.2,
	})
	if err != nil || strings.TrimSpace(raw) == "" {
		c.logger.DebugContext(ctx, "raw pass abandoned",
			"content_type", req.Type, "attempt", attempt, "err", err)
		return nil, false
	}

	authentic, err := c.provider.Complete(ctx, system,
		compose.AuthenticityPrompt(raw, req.Persona), textgen.Options{
			Temperature: authenticTemperature,
		})
	if err != nil || strings.TrimSpace(authentic) == "" {
		c.logger.DebugContext(ctx, "authenticity pass abandoned",
			"content_type", req.Type, "attempt", attempt, "err", err)
		return nil, false
	}

	validated, err := c.provider.Complete(ctx, "",
		compose.ValidationPrompt(authentic), textgen.Options{
			Temperature: validationTemperature,
		})
	if err != nil {
		// The content itself is fine; only the critique failed. Score it
		// conservatively instead of abandoning.
		validated = ""
	}

	report, parsed := compose.ParseValidationReport(validated)
	if !parsed {
		c.logger.DebugContext(ctx, "validator response unparseable, using defaults",
			"content_type", req.Type, "attempt", attempt)
	}

	return &Result{
		FinalContent: strings.TrimSpace(authentic),
		Passes: Passes{
			Raw:       raw,
			Authentic: authentic,
			Validated: validated,
		},
		QualityScore: report.Score,
		Report:       report,
	}, true
}

func (c *Controller) observeDuration(start time.Time) {
	c.metrics.ObserveGenerationSeconds(time.Since(start).Seconds())
}

// Fallback returns the canned string for a content type, exposed for the
// designer's tests.
func Fallback(t compose.ContentType) string {
	return fallbacks[t]
}
