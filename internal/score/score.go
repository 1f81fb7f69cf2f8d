// Package score implements the deterministic quality and authenticity
// scorer. Predict is pure and total: it never errors, even on degenerate
// threads, and identical inputs always produce identical output.
package score

import (
	"strings"

	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/thread"
)

// Predict evaluates a finished thread across five weighted dimensions.
// Company may be nil when scoring organic (non-campaign) threads.
func Predict(t *thread.ConversationThread, sub persona.SubredditContext, personas []persona.Persona, company *persona.CompanyContext) thread.QualityScore {
	var issues []thread.Issue
	var strengths []string

	relevance, is, st := scoreRelevance(t, sub, personas, company)
	issues, strengths = append(issues, is...), append(strengths, st...)

	specificity, is, st := scoreSpecificity(t)
	issues, strengths = append(issues, is...), append(strengths, st...)

	authenticity, is, st := scoreAuthenticity(t)
	issues, strengths = append(issues, is...), append(strengths, st...)

	valueFirst, is, st := scoreValueFirst(t, company)
	issues, strengths = append(issues, is...), append(strengths, st...)

	engagement, is, st := scoreEngagement(t)
	issues, strengths = append(issues, is...), append(strengths, st...)

	dims := thread.Dimensions{
		SubredditRelevance: relevance,
		ProblemSpecificity: specificity,
		Authenticity:       authenticity,
		ValueFirst:         valueFirst,
		Engagement:         engagement,
	}
	overall := dims.Sum()

	return thread.QualityScore{
		Overall:     overall,
		Dimensions:  dims,
		Grade:       thread.GradeFor(overall),
		Issues:      issues,
		Strengths:   strengths,
		Suggestions: buildSuggestions(issues),
	}
}

// maxSuggestions caps the advice list; anything past five items stops being
// actionable.
const maxSuggestions = 5

// suggestionRules maps issue types to generic rules of thumb, used after the
// severity-picked entries.
var suggestionRules = []struct {
	issueType string
	advice    string
}{
	{"tool_fishing", "Describe the actual problem and what has already been tried instead of asking for tool recommendations"},
	{"ai_patterns", "Rewrite formal transitions and corporate phrasing into plain conversational language"},
	{"uncontracted", "Use contractions the way people actually type (don't, it's, can't)"},
	{"long_comments", "Trim comments; real replies rarely run past a short paragraph"},
	{"no_op_followup", "Have the original poster come back and respond to at least two comments"},
	{"low_variance", "Give each commenter distinct vocabulary so they don't read as one author"},
	{"no_question", "End the post with a genuine question to invite replies"},
	{"promotion_in_no_promo_sub", "Pick a community that tolerates product talk, or drop the mention entirely"},
}

// buildSuggestions takes the first critical issue, then the first high
// severity issue, then generic per-type advice, capped at maxSuggestions.
func buildSuggestions(issues []thread.Issue) []string {
	var out []string
	seen := make(map[string]bool)

	pick := func(sev thread.Severity) {
		for _, issue := range issues {
			if issue.Severity == sev && !seen[issue.Type] {
				out = append(out, issue.Message)
				seen[issue.Type] = true
				return
			}
		}
	}
	pick(thread.SeverityCritical)
	pick(thread.SeverityHigh)

	for _, rule := range suggestionRules {
		if len(out) >= maxSuggestions {
			break
		}
		for _, issue := range issues {
			if issue.Type == rule.issueType && !seen[issue.Type] {
				out = append(out, rule.advice)
				seen[issue.Type] = true
				break
			}
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// fullText concatenates every piece of text in the thread, lowercased.
func fullText(t *thread.ConversationThread) string {
	var b strings.Builder
	b.WriteString(t.Post.Title)
	b.WriteByte('\n')
	b.WriteString(t.Post.Body)
	for _, c := range t.TopLevelComments {
		b.WriteByte('\n')
		b.WriteString(c.Body)
	}
	for _, r := range t.Replies {
		b.WriteByte('\n')
		b.WriteString(r.Body)
	}
	return strings.ToLower(b.String())
}

// mentionsProduct reports whether the text names the company or product, or
// the producing template flagged the unit as a mention.
func mentionsProduct(text string, flagged bool, company *persona.CompanyContext) bool {
	if flagged {
		return true
	}
	if company == nil {
		return false
	}
	lower := strings.ToLower(text)
	if company.Name != "" && strings.Contains(lower, strings.ToLower(company.Name)) {
		return true
	}
	if company.Product != "" && strings.Contains(lower, strings.ToLower(company.Product)) {
		return true
	}
	return false
}

func personaFormality(personas []persona.Persona, id string) float64 {
	for _, p := range personas {
		if p.ID == id {
			return p.Vocabulary.Formality
		}
	}
	return 0.5
}
