package score

import (
	"strings"

	"github.com/chad/threadsmith/internal/thread"
)

var relatableEmotionWords = []string{
	"frustrated", "frustrating", "annoying", "struggling", "exhausted",
	"stuck", "desperate", "tired of", "relieved", "losing my mind",
}

// scoreEngagement rates how likely the thread is to draw real replies, out
// of 15: 5 for a question in the post, up to 5 for original-poster
// follow-ups, up to 3 for commenter diversity, and 2 for relatable emotion
// in the post.
func scoreEngagement(t *thread.ConversationThread) (int, []thread.Issue, []string) {
	var issues []thread.Issue
	var strengths []string
	points := 0

	if strings.Contains(t.Post.Title+t.Post.Body, "?") {
		points += 5
		strengths = append(strengths, "post invites replies with a question")
	} else {
		issues = append(issues, thread.Issue{
			Type:     "no_question",
			Severity: thread.SeverityLow,
			Message:  "post never asks anything",
		})
	}

	switch followups := t.RepliesByPersona(t.Post.PersonaID); {
	case followups >= 2:
		points += 5
	case followups == 1:
		points += 3
	default:
		issues = append(issues, thread.Issue{
			Type:     "no_op_followup",
			Severity: thread.SeverityMedium,
			Message:  "original poster never returns to the thread",
		})
	}

	switch t.DistinctCommenters() {
	case 0:
		// degenerate thread, no commenter points
	case 1:
		points += 1
	case 2:
		points += 2
	default:
		points += 3
	}

	if containsAny(strings.ToLower(t.Post.Title+" "+t.Post.Body), relatableEmotionWords) {
		points += 2
	}

	return points, issues, strengths
}
