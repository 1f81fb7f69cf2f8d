package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/thread"
)

// scoreRelevance rates subreddit fit, out of 20: up to 15 for topical
// overlap and up to 5 for formality proximity. A product mention in a
// zero-tolerance community zeroes the whole dimension.
func scoreRelevance(t *thread.ConversationThread, sub persona.SubredditContext, personas []persona.Persona, company *persona.CompanyContext) (int, []thread.Issue, []string) {
	var issues []thread.Issue
	var strengths []string

	if sub.PromotionTolerance == persona.ToleranceNone {
		for _, c := range t.TopLevelComments {
			if mentionsProduct(c.Body, c.ProductMention, company) {
				issues = append(issues, thread.Issue{
					Type:     "promotion_in_no_promo_sub",
					Severity: thread.SeverityHigh,
					Message:  fmt.Sprintf("r/%s does not tolerate promotion but a comment mentions the product", sub.Name),
				})
				return 0, issues, strengths
			}
		}
	}

	text := fullText(t)
	points := 0

	// Declared campaign keywords take priority over subreddit topics.
	if company != nil && anyKeywordIn(text, company.Keywords) {
		points += 15
		strengths = append(strengths, "thread hits declared campaign keywords")
	} else {
		points += topicPoints(text, sub.CommonTopics, &strengths)
	}

	formality := personaFormality(personas, t.Post.PersonaID)
	bonus := (1 - math.Abs(formality-sub.FormalityLevel)) * 5
	points += int(math.Round(bonus))

	if points > 20 {
		points = 20
	}
	return points, issues, strengths
}

// topicPoints implements the tiered subreddit-topic fallback: 10 for two or
// more exact topic matches, 8 for one exact match, 6 for a fuzzy word-level
// match, and a floor of 3 so on-theme threads never zero out entirely.
func topicPoints(text string, topics []string, strengths *[]string) int {
	exact := 0
	for _, topic := range topics {
		if topic != "" && strings.Contains(text, strings.ToLower(topic)) {
			exact++
		}
	}
	switch {
	case exact >= 2:
		*strengths = append(*strengths, "thread matches multiple community topics")
		return 10
	case exact == 1:
		return 8
	}

	for _, topic := range topics {
		for _, word := range strings.Fields(strings.ToLower(topic)) {
			if len(word) >= 4 && strings.Contains(text, word) {
				return 6
			}
		}
	}
	return 3
}

func anyKeywordIn(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
