// Package compose builds the natural-language instructions sent to the text
// generation service. Everything here is a pure function of its inputs; the
// multipass controller decides when and how often to call the service.
package compose

import (
	"fmt"
	"strings"

	"github.com/chad/threadsmith/internal/emotion"
	"github.com/chad/threadsmith/internal/persona"
)

// ContentType names the unit being generated.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentComment ContentType = "comment"
	ContentReply   ContentType = "reply"
)

// Request carries everything a prompt needs about one content unit.
type Request struct {
	Type      ContentType
	Persona   persona.Persona
	Subreddit persona.SubredditContext
	Company   *persona.CompanyContext
	Problem   string

	// Emotional context for this slot.
	State         emotion.State
	Frustration   float64
	Opportunities []emotion.Opportunity

	// Slot configuration from the arc template.
	Purpose             string
	Tone                string
	AllowProductMention bool

	// ThreadContext is the post plus any prior comments, for comments and
	// replies. Empty for posts.
	ThreadContext string
	ParentComment string // for replies only
}

const baseSystemPrompt = `You ghostwrite single Reddit contributions that read like a real person typed them on their phone.

RULES:
1. Write exactly one %s — no preamble, no quotation marks around the output, no markdown headings
2. Stay in character; never mention being an AI or following instructions
3. Use natural typed language: contractions, lowercase starts where the persona would, minor imperfections
4. Never use formal transitions (furthermore, moreover, in conclusion) or corporate phrasing
5. Length: %s
6. React to the thread context where it exists; do not summarize it back`

// SystemPrompt renders the fixed rule block for a content type.
func SystemPrompt(t ContentType) string {
	return fmt.Sprintf(baseSystemPrompt, unitLabel(t), lengthGuidance(t))
}

func unitLabel(t ContentType) string {
	switch t {
	case ContentPost:
		return "Reddit post (title on the first line, body after a blank line)"
	case ContentReply:
		return "nested reply"
	default:
		return "top-level comment"
	}
}

func lengthGuidance(t ContentType) string {
	switch t {
	case ContentPost:
		return "2-6 sentences of body text"
	case ContentReply:
		return "1-3 sentences"
	default:
		return "1-4 sentences"
	}
}

// UserPrompt renders the per-unit instruction, layering persona voice,
// community register, emotional state, and any flagged flourishes.
func UserPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %q posting in r/%s.\n", req.Persona.Name, req.Subreddit.Name)
	fmt.Fprintf(&b, "CHARACTER: %s\n", req.Persona.Role)
	fmt.Fprintf(&b, "VOICE: %s, %s register. ", req.Persona.Style, formalityLabel(req.Persona.Vocabulary.Formality))
	if len(req.Persona.Vocabulary.Phrases) > 0 {
		fmt.Fprintf(&b, "Phrases you reach for: %s. ", strings.Join(req.Persona.Vocabulary.Phrases, "; "))
	}
	if len(req.Persona.Vocabulary.Avoided) > 0 {
		fmt.Fprintf(&b, "Words you would never type: %s.", strings.Join(req.Persona.Vocabulary.Avoided, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "COMMUNITY: %s. ", req.Subreddit.Culture)
	if len(req.Subreddit.AcceptedLanguage) > 0 {
		fmt.Fprintf(&b, "Local vocabulary: %s. ", strings.Join(req.Subreddit.AcceptedLanguage, ", "))
	}
	if len(req.Subreddit.AvoidedLanguage) > 0 {
		fmt.Fprintf(&b, "Instant downvotes: %s.", strings.Join(req.Subreddit.AvoidedLanguage, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "EMOTIONAL STATE: %s at intensity %.1f, %s. %s\n",
		req.State.Primary, req.State.Intensity, req.State.Trajectory, emotionGuidance(req.State))
	if req.Frustration > 0 {
		fmt.Fprintf(&b, "FRUSTRATION LEVEL: %.1f — %s\n", req.Frustration, frustrationGuidance(req.Frustration))
	}

	for _, opp := range req.Opportunities {
		switch opp.Kind {
		case emotion.HumorOpportunity:
			fmt.Fprintf(&b, "HUMOR: a %s aside fits here (confidence %.1f), triggered by: %s. One line at most; skip it if it doesn't land.\n",
				opp.SubType, opp.Appropriateness, opp.Trigger)
		case emotion.VulnerabilityOpportunity:
			fmt.Fprintf(&b, "VULNERABILITY: admit a %s of your own here (confidence %.1f). Keep it brief and concrete.\n",
				opp.SubType, opp.Appropriateness)
		}
	}

	fmt.Fprintf(&b, "PURPOSE: %s\n", req.Purpose)
	if req.Tone != "" {
		fmt.Fprintf(&b, "TONE: %s\n", req.Tone)
	}
	if req.Problem != "" {
		fmt.Fprintf(&b, "THE PROBLEM: %s\n", req.Problem)
	}

	b.WriteString(productDirective(req))

	if req.ThreadContext != "" {
		fmt.Fprintf(&b, "\nTHREAD SO FAR:\n%s\n", req.ThreadContext)
	}
	if req.ParentComment != "" {
		fmt.Fprintf(&b, "\nYOU ARE REPLYING TO:\n%s\n", req.ParentComment)
	}

	return b.String()
}

// productDirective is the safety-critical section: it spells out whether the
// unit may mention the product at all, and how softly if so.
func productDirective(req Request) string {
	if req.Company == nil || !req.AllowProductMention {
		return "PRODUCT: do NOT mention any specific product, company, or brand in this text.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "PRODUCT: you may mention %s (%s) ONCE, as a personal experience, never as a pitch. ",
		req.Company.Name, req.Company.Product)
	b.WriteString("No superlatives (\"the best\", \"you need\"), no feature lists; include one honest limitation if natural.\n")
	if len(req.Company.ValueProps) > 0 {
		fmt.Fprintf(&b, "What it actually did for you (pick at most one): %s\n", strings.Join(req.Company.ValueProps, "; "))
	}
	return b.String()
}

func formalityLabel(f float64) string {
	switch {
	case f < 0.3:
		return "very casual"
	case f < 0.5:
		return "casual"
	case f < 0.7:
		return "measured"
	default:
		return "formal"
	}
}

func emotionGuidance(st emotion.State) string {
	switch st.Primary {
	case emotion.Frustration:
		return "Let the irritation show through word choice, not exclamation marks."
	case emotion.Curiosity:
		return "Ask before you assert; you genuinely want to know."
	case emotion.CautiousOptimism:
		return "Hopeful but hedged; you've been burned before."
	case emotion.Relief:
		return "Tension draining out; shorter sentences, a little disbelief."
	case emotion.Satisfaction:
		return "Quietly pleased, not triumphant."
	case emotion.Excitement:
		return "Energy is fine, hype words are not."
	case emotion.Skepticism:
		return "Demand specifics; assume marketing until proven otherwise."
	case emotion.Disappointment:
		return "Resigned rather than angry."
	default:
		return "Keep the tone neutral."
	}
}

func frustrationGuidance(level float64) string {
	switch {
	case level > 0.7:
		return "clipped sentences, venting, no patience for process"
	case level > 0.4:
		return "irritated but still constructive"
	default:
		return "mostly past it; frustration only in hindsight"
	}
}

// AuthenticityPrompt builds the pass-2 humanizing rewrite instruction.
func AuthenticityPrompt(draft string, p persona.Persona) string {
	return fmt.Sprintf(`Rewrite the following %s text so it reads like something a real person typed quickly.

EDITS TO MAKE:
- Contract everything a person would contract (don't, it's, can't)
- Cut at least 20%% of the words; trim hedging and throat-clearing
- Allow one small imperfection: a lowercase start, a trailing thought, an "idk" where it fits the voice
- Remove anything that sounds like customer support or a press release
- Keep the meaning, the specifics, and any product mention exactly as soft as it was

Return ONLY the rewritten text, nothing else.

TEXT:
%s`, p.Style, draft)
}
