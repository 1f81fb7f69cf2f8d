package score

import (
	"strings"

	"github.com/chad/threadsmith/internal/persona"
	"github.com/chad/threadsmith/internal/thread"
)

// promotionalSuperlatives are the hard-sell phrases that turn a mention into
// an ad.
var promotionalSuperlatives = []string{
	"the best", "you need", "you should definitely", "must-have",
	"must have", "life changing", "life-changing", "can't recommend enough",
	"hands down the",
}

// scoreValueFirst enforces the ordering rule that value comes before any
// product talk, out of 20: 8 for a clean post (4 if the comparison arc
// legitimately names products), 8 for the first comment not being the first
// product mention, and 4 for product comments staying free of hard-sell
// superlatives.
func scoreValueFirst(t *thread.ConversationThread, company *persona.CompanyContext) (int, []thread.Issue, []string) {
	var issues []thread.Issue
	var strengths []string
	points := 0

	postMentions := mentionsProduct(t.Post.Title+" "+t.Post.Body, t.Post.ProductMention, company)
	switch {
	case !postMentions:
		points += 8
	case t.ArcType == "comparison":
		// Comparison posts have to name the contenders up front.
		points += 4
	default:
		issues = append(issues, thread.Issue{
			Type:     "post_self_promo",
			Severity: thread.SeverityHigh,
			Message:  "post itself references the product; the problem must come first",
		})
	}

	firstCommentMentions := len(t.TopLevelComments) > 0 &&
		mentionsProduct(t.TopLevelComments[0].Body, t.TopLevelComments[0].ProductMention, company)
	if firstCommentMentions && !postMentions {
		issues = append(issues, thread.Issue{
			Type:     "first_comment_promo",
			Severity: thread.SeverityCritical,
			Message:  "first comment is the thread's first product mention",
		})
	} else {
		points += 8
	}

	superlative := false
	for _, c := range t.TopLevelComments {
		if !mentionsProduct(c.Body, c.ProductMention, company) {
			continue
		}
		if containsAny(strings.ToLower(c.Body), promotionalSuperlatives) {
			superlative = true
			break
		}
	}
	if superlative {
		issues = append(issues, thread.Issue{
			Type:     "promotional_language",
			Severity: thread.SeverityCritical,
			Message:  "product comment uses hard-sell superlatives",
		})
	} else {
		points += 4
	}

	if points == 20 {
		strengths = append(strengths, "value-first ordering holds throughout the thread")
	}
	return points, issues, strengths
}
