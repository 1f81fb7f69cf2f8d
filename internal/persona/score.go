package persona

import (
	"math"
	"strings"
)

// ScoreForSubreddit rates how naturally a persona fits a community, in [0,1].
// Formality proximity carries half the weight; a persona whose register is far
// from the community's reads as out of place no matter how on-topic they are.
// The other half is interest overlap with the community's common topics.
func ScoreForSubreddit(p Persona, sub SubredditContext) float64 {
	formalityFit := 1.0 - math.Abs(p.Vocabulary.Formality-sub.FormalityLevel)

	overlap := 0
	for _, interest := range p.Interests {
		for _, topic := range sub.CommonTopics {
			if strings.EqualFold(interest, topic) {
				overlap++
				break
			}
		}
	}
	interestFit := 0.0
	if len(p.Interests) > 0 {
		interestFit = float64(overlap) / float64(len(p.Interests))
	}

	return clamp01(0.5*formalityFit + 0.5*interestFit)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// UsageTracker counts how often personas, subreddits, and their combinations
// have been used within one planning run, so selection can rotate instead of
// repeating the same voice. It is mutated only by the sequential planning
// loop and is not safe for concurrent use.
type UsageTracker struct {
	personaUse   map[string]int
	subredditUse map[string]int
	comboUse     map[string]int
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{
		personaUse:   make(map[string]int),
		subredditUse: make(map[string]int),
		comboUse:     make(map[string]int),
	}
}

// Record notes one use of the persona in the subreddit.
func (t *UsageTracker) Record(personaID, subreddit string) {
	t.personaUse[personaID]++
	t.subredditUse[subreddit]++
	t.comboUse[personaID+"|"+subreddit]++
}

// PersonaUses returns how many times the persona has been used this run.
func (t *UsageTracker) PersonaUses(personaID string) int {
	return t.personaUse[personaID]
}

// SubredditUses returns how many times the subreddit has been targeted this run.
func (t *UsageTracker) SubredditUses(name string) int {
	return t.subredditUse[name]
}

// ComboUses returns how many times this persona has appeared in this subreddit.
func (t *UsageTracker) ComboUses(personaID, subreddit string) int {
	return t.comboUse[personaID+"|"+subreddit]
}

// PickLeastUsed returns the candidate persona with the best fit score after an
// overuse penalty. Ties keep the earlier candidate, which keeps selection
// deterministic for a fixed candidate order.
func (t *UsageTracker) PickLeastUsed(candidates []Persona, sub SubredditContext) Persona {
	best := candidates[0]
	bestScore := math.Inf(-1)
	for _, c := range candidates {
		score := ScoreForSubreddit(c, sub)
		score -= 0.15 * float64(t.ComboUses(c.ID, sub.Name))
		score -= 0.05 * float64(t.PersonaUses(c.ID))
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}
