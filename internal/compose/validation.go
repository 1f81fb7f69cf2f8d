package compose

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// ValidationReport is the typed contract for the pass-3 self-critique
// response. The model is asked for strict JSON matching this shape; parsing
// is total, falling back to conservative defaults rather than failing.
type ValidationReport struct {
	Pass         bool     `json:"pass" jsonschema:"required"`
	Score        int      `json:"score" jsonschema:"required,minimum=0,maximum=100"`
	AIPatterns   []string `json:"ai_patterns"`
	HumanMarkers []string `json:"human_markers"`
	Issues       []string `json:"issues"`
}

// DefaultReport is what a failed parse degrades to: mid score, not passed.
func DefaultReport() ValidationReport {
	return ValidationReport{Pass: false, Score: 50}
}

var (
	schemaOnce sync.Once
	schemaJSON string
)

// validationSchema renders the JSON schema for ValidationReport once; it is
// embedded in the validation prompt so the contract lives in one place.
func validationSchema() string {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			DoNotReference:             true,
			AllowAdditionalProperties:  false,
			RequiredFromJSONSchemaTags: true,
		}
		s := reflector.Reflect(&ValidationReport{})
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			// Reflection over our own struct cannot fail at runtime; keep a
			// minimal hand-written fallback anyway.
			schemaJSON = `{"type":"object","required":["pass","score"]}`
			return
		}
		schemaJSON = string(data)
	})
	return schemaJSON
}

// ValidationPrompt builds the strict pass-3 critique instruction.
func ValidationPrompt(content string) string {
	return fmt.Sprintf(`You are a strict detector of machine-generated Reddit content. Evaluate the text below.

Score 0-100 for how convincingly human it reads. A score of 70 or above with no disqualifying patterns passes.

DISQUALIFIERS (automatic fail): formal transitions, numbered lists, corporate jargon, "as an AI", balanced both-sides hedging, customer-support politeness.

Return ONLY a JSON object matching this schema — no markdown fences, no commentary:
%s

TEXT TO EVALUATE:
%s`, validationSchema(), content)
}

// ParseValidationReport extracts a report from the model's raw response.
// It tolerates markdown fences and surrounding prose, clamps the score to
// [0,100], and returns DefaultReport plus ok=false when nothing parseable
// is found.
func ParseValidationReport(raw string) (ValidationReport, bool) {
	text := stripFences(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return DefaultReport(), false
	}

	var report ValidationReport
	if err := json.Unmarshal([]byte(text[start:end+1]), &report); err != nil {
		return DefaultReport(), false
	}
	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 100 {
		report.Score = 100
	}
	return report, true
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
