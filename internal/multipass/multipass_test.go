package multipass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/chad/threadsmith/internal/compose"
	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/textgen"
)

// scriptedProvider returns canned responses keyed by which pass a prompt
// belongs to, and counts calls.
type scriptedProvider struct {
	rawResponse        string
	authenticResponse  string
	validationResponse string
	err                error
	calls              int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Complete(ctx context.Context, system, prompt string, opts textgen.Options) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	switch {
	case strings.Contains(prompt, "machine-generated Reddit content"):
		return s.validationResponse, nil
	case strings.Contains(prompt, "Rewrite the following"):
		return s.authenticResponse, nil
	default:
		return s.rawResponse, nil
	}
}

func testRequest() compose.Request {
	return compose.Request{
		Type:    compose.ContentComment,
		Persona: persona.Persona{ID: "dan", Name: "Dan", Style: "measured"},
		Subreddit: persona.SubredditContext{
			Name: "devops",
		},
		Purpose: "share a war story",
	}
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGenerate_AcceptsOnPassingValidation(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{
		rawResponse:        "We had this exact problem last year and it took us a month to dig out.",
		authenticResponse:  "had this exact problem last year, took us a month to dig out",
		validationResponse: `{"pass": true, "score": 86, "human_markers": ["contractions"]}`,
	}
	res := NewController(p, discard(), nil).Generate(context.Background(), testRequest())

	if !res.Metadata.PassedValidation {
		t.Fatal("expected validation to pass")
	}
	if res.FinalContent != "had this exact problem last year, took us a month to dig out" {
		t.Fatalf("final content = %q", res.FinalContent)
	}
	if res.QualityScore != 86 {
		t.Fatalf("quality score = %d, want 86", res.QualityScore)
	}
	if res.Metadata.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Metadata.Attempts)
	}
	if p.calls != 3 {
		t.Fatalf("provider calls = %d, want 3 (one per pass)", p.calls)
	}
	if res.Passes.Raw == "" || res.Passes.Authentic == "" || res.Passes.Validated == "" {
		t.Fatal("pass snapshots must all be retained")
	}
}

// A provider that always returns empty strings must terminate within
// maxAttempts and produce the documented fallback — never loop or panic.
func TestGenerate_FallbackOnEmptyProvider(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{} // all responses empty
	c := NewController(p, discard(), nil).WithMaxAttempts(3)
	res := c.Generate(context.Background(), testRequest())

	if res.Metadata.PassedValidation {
		t.Fatal("fallback result must not claim validation passed")
	}
	if !res.Metadata.UsedFallback {
		t.Fatal("expected fallback metadata flag")
	}
	if res.FinalContent != Fallback(compose.ContentComment) {
		t.Fatalf("final content = %q, want fallback", res.FinalContent)
	}
	if res.QualityScore != 40 {
		t.Fatalf("fallback quality = %d, want 40", res.QualityScore)
	}
	if res.Metadata.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", res.Metadata.Attempts)
	}
	// Empty raw pass abandons the attempt before passes 2 and 3.
	if p.calls != 3 {
		t.Fatalf("provider calls = %d, want 3 (one raw call per attempt)", p.calls)
	}
}

func TestGenerate_FallbackOnErroringProvider(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{err: errors.New("boom")}
	res := NewController(p, discard(), nil).Generate(context.Background(), testRequest())

	if !res.Metadata.UsedFallback {
		t.Fatal("erroring provider must degrade to fallback, not propagate")
	}
	if res.FinalContent == "" {
		t.Fatal("fallback content must be non-empty")
	}
}

func TestGenerate_KeepsBestCandidateBelowThreshold(t *testing.T) {
	t.Parallel()

	// Validator never passes; scores differ per attempt via a counter.
	p := &countingValidator{scores: []int{55, 62}}
	c := NewController(p, discard(), nil).WithMaxAttempts(2)
	res := c.Generate(context.Background(), testRequest())

	if res.Metadata.PassedValidation {
		t.Fatal("no attempt passed validation")
	}
	if res.Metadata.UsedFallback {
		t.Fatal("non-empty attempts must not degrade to fallback")
	}
	if res.QualityScore != 62 {
		t.Fatalf("quality = %d, want the best attempt's 62", res.QualityScore)
	}
}

func TestGenerate_UnparseableValidatorGetsDefaults(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{
		rawResponse:        "draft",
		authenticResponse:  "polished draft",
		validationResponse: "I refuse to answer in JSON.",
	}
	res := NewController(p, discard(), nil).Generate(context.Background(), testRequest())

	if res.Metadata.PassedValidation {
		t.Fatal("unparseable validator output must not pass")
	}
	if res.QualityScore != 50 {
		t.Fatalf("quality = %d, want the conservative default 50", res.QualityScore)
	}
	if res.FinalContent != "polished draft" {
		t.Fatalf("content should still be the authentic pass output, got %q", res.FinalContent)
	}
}

// countingValidator produces valid content and a different validator score
// on each attempt.
type countingValidator struct {
	scores     []int
	validation int
}

func (c *countingValidator) Name() string { return "counting" }

func (c *countingValidator) Complete(ctx context.Context, system, prompt string, opts textgen.Options) (string, error) {
	if strings.Contains(prompt, "machine-generated Reddit content") {
		score := c.scores[c.validation%len(c.scores)]
		c.validation++
		return fmt.Sprintf(`{"pass": false, "score": %d}`, score), nil
	}
	return "some plausible draft text", nil
}
