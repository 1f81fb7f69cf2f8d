package score

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chad/threadsmith/internal/thread"
)

// aiPatterns are regex-detected telltales of machine-generated text: formal
// transitions, corporate jargon, numbered-list structure, and over-helpful
// stock phrases.
var aiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(furthermore|moreover|additionally|in conclusion|it is worth noting|it's important to note)\b`),
	regexp.MustCompile(`\b(leverage|utilize|seamless(ly)?|robust solution|streamline|cutting-edge|game-chang(er|ing)|unlock the power)\b`),
	regexp.MustCompile(`(?m)^\s*\d+\.\s`),
	regexp.MustCompile(`\b(i hope this helps|feel free to|great question|happy to help|hope that clarifies)\b`),
}

// uncontractedRe matches phrases people almost always contract when typing
// casually.
var uncontractedRe = regexp.MustCompile(`\b(do not|does not|did not|cannot|will not|would not|should not|is not|are not|i am|it is not)\b`)

var casualMarkers = []string{
	"tbh", "imo", "imho", "lol", "idk", "ngl", "honestly", "...",
	"gonna", "kinda", "sorta", "yeah",
}

const (
	uncontractedThreshold = 2
	longCommentThreshold  = 300
)

// scoreAuthenticity rates how human the thread reads, out of 25: up to 10
// from the AI-pattern tier, up to 5 for contraction usage, 3 for reasonable
// comment length, up to 4 for lexical variance across commenters, and up to
// 3 for casual markers.
func scoreAuthenticity(t *thread.ConversationThread) (int, []thread.Issue, []string) {
	var issues []thread.Issue
	var strengths []string

	text := fullText(t)
	points := 0

	matches := 0
	for _, re := range aiPatterns {
		matches += len(re.FindAllString(text, -1))
	}
	switch {
	case matches == 0:
		points += 10
		strengths = append(strengths, "no AI-pattern phrases detected")
	case matches <= 2:
		points += 7
	case matches <= 4:
		points += 3
		issues = append(issues, thread.Issue{
			Type:     "ai_patterns",
			Severity: thread.SeverityMedium,
			Message:  fmt.Sprintf("%d AI-pattern phrases detected", matches),
		})
	default:
		issues = append(issues, thread.Issue{
			Type:     "ai_patterns",
			Severity: thread.SeverityHigh,
			Message:  fmt.Sprintf("%d AI-pattern phrases detected", matches),
		})
	}

	uncontracted := len(uncontractedRe.FindAllString(text, -1))
	switch {
	case uncontracted <= uncontractedThreshold:
		points += 5
	case uncontracted <= uncontractedThreshold+3:
		points += 3
		issues = append(issues, thread.Issue{
			Type:     "uncontracted",
			Severity: thread.SeverityLow,
			Message:  fmt.Sprintf("%d un-contracted phrases; casual text contracts", uncontracted),
		})
	default:
		issues = append(issues, thread.Issue{
			Type:     "uncontracted",
			Severity: thread.SeverityMedium,
			Message:  fmt.Sprintf("%d un-contracted phrases; casual text contracts", uncontracted),
		})
	}

	if avg := avgCommentLength(t); avg <= longCommentThreshold {
		points += 3
	} else {
		issues = append(issues, thread.Issue{
			Type:     "long_comments",
			Severity: thread.SeverityMedium,
			Message:  fmt.Sprintf("average comment length %d chars; real replies run shorter", avg),
		})
	}

	points += variancePoints(t, &issues, &strengths)

	markers := 0
	for _, m := range casualMarkers {
		if strings.Contains(text, m) {
			markers++
		}
	}
	switch {
	case markers >= 2:
		points += 3
	case markers == 1:
		points += 2
	}

	return points, issues, strengths
}

// variancePoints rewards lexical spread between different commenters' styles,
// up to 4 points. High pairwise similarity means everyone sounds like the
// same author.
func variancePoints(t *thread.ConversationThread, issues *[]thread.Issue, strengths *[]string) int {
	byPersona := make(map[string][]string)
	var order []string
	for _, c := range t.TopLevelComments {
		if _, seen := byPersona[c.PersonaID]; !seen {
			order = append(order, c.PersonaID)
		}
		byPersona[c.PersonaID] = append(byPersona[c.PersonaID], c.Body)
	}
	if len(order) < 2 {
		return 0
	}

	var total float64
	pairs := 0
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a := strings.Join(byPersona[order[i]], " ")
			b := strings.Join(byPersona[order[j]], " ")
			total += JaccardSimilarity(a, b)
			pairs++
		}
	}
	avg := total / float64(pairs)

	switch {
	case avg < 0.3:
		*strengths = append(*strengths, "commenters have distinct vocabularies")
		return 4
	case avg < 0.5:
		return 2
	default:
		*issues = append(*issues, thread.Issue{
			Type:     "low_variance",
			Severity: thread.SeverityMedium,
			Message:  "commenters share too much vocabulary; thread reads as one author",
		})
		return 0
	}
}

func avgCommentLength(t *thread.ConversationThread) int {
	if len(t.TopLevelComments) == 0 {
		return 0
	}
	total := 0
	for _, c := range t.TopLevelComments {
		total += len(c.Body)
	}
	return total / len(t.TopLevelComments)
}
