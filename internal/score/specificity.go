package score

import (
	"regexp"
	"strings"

	"github.com/chad/threadsmith/internal/thread"
)

var (
	numeralRe = regexp.MustCompile(`\d`)

	timeWords = []string{
		"hour", "day", "week", "month", "year", "every", "daily",
		"weekly", "monthly", "last night", "this morning", "yesterday",
	}
	quantifierWords = []string{
		"about", "around", "roughly", "at least", "more than",
		"almost", "nearly", "dozens", "hundreds",
	}
	firstPersonWords = []string{"i ", "i'", "my ", "we ", "we'", "our ", "me "}

	// toolFishingRe catches the generic "recommend me a tool" register that
	// marks a post as solicitation rather than a real problem.
	toolFishingRe = regexp.MustCompile(`looking for (a |an )?(good |decent |new )?(tool|app|software|solution)|any recommendations|recommend (me |a |an )|what('s| is) the best (tool|app|software)|suggest (a|an|some) (tool|app)`)
)

// scoreSpecificity rates how concrete the post's problem is, out of 20:
// up to 8 for hard detail (numbers, time references, quantifiers), up to 7
// for first-person narrative with real length, and 5 for avoiding
// tool-fishing phrasing.
func scoreSpecificity(t *thread.ConversationThread) (int, []thread.Issue, []string) {
	var issues []thread.Issue
	var strengths []string

	post := strings.ToLower(t.Post.Title + " " + t.Post.Body)
	points := 0

	detail := 0
	if numeralRe.MatchString(post) {
		detail += 3
	}
	if containsAny(post, timeWords) {
		detail += 3
	}
	if containsAny(post, quantifierWords) {
		detail += 2
	}
	points += detail
	if detail >= 6 {
		strengths = append(strengths, "post grounds the problem in concrete numbers and timeframes")
	}

	firstPerson := containsAny(post, firstPersonWords)
	switch {
	case firstPerson && len(t.Post.Body) > 100:
		points += 7
	case firstPerson:
		points += 4
	}

	if toolFishingRe.MatchString(post) {
		issues = append(issues, thread.Issue{
			Type:     "tool_fishing",
			Severity: thread.SeverityHigh,
			Message:  "post reads as tool solicitation rather than a real problem",
		})
	} else {
		points += 5
	}

	return points, issues, strengths
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
