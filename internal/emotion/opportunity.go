package emotion

import (
	"sort"

	"github.com/chad/threadsmith/internal/persona"
)

// OpportunityKind distinguishes the two flavors of stylistic flourish.
type OpportunityKind string

const (
	HumorOpportunity         OpportunityKind = "humor"
	VulnerabilityOpportunity OpportunityKind = "vulnerability"
)

// Opportunity flags a discrete moment in the arc where a stylistic flourish
// fits, with a 0-1 appropriateness estimate.
type Opportunity struct {
	Position        int             `json:"position"` // index into Arc.Progression
	Kind            OpportunityKind `json:"kind"`
	SubType         string          `json:"sub_type"`
	Appropriateness float64         `json:"appropriateness"`
	Trigger         string          `json:"trigger"`
}

// phase classifies a position within the arc.
type phase string

const (
	phaseInitiation phase = "initiation"
	phaseBuildup    phase = "buildup"
	phaseResolution phase = "resolution"
)

func phaseAt(position, total int) phase {
	switch {
	case position == 0:
		return phaseInitiation
	case position == total-1:
		return phaseResolution
	default:
		return phaseBuildup
	}
}

var timingMultiplier = map[persona.HumorTiming]float64{
	persona.TimingPerfect:       1.0,
	persona.TimingGood:          0.8,
	persona.TimingInappropriate: 0.6,
}

// humorMatches maps a humor type to the emotions it can riff on. A persona
// whose style doesn't match the stage's emotion stays serious there.
var humorMatches = map[string][]Emotion{
	"dry":              {Skepticism, Frustration, Satisfaction, Disappointment},
	"self_deprecating": {Frustration, Disappointment, Relief},
	"observational":    {Curiosity, Satisfaction, CautiousOptimism},
	"absurdist":        {Excitement, Frustration, Curiosity},
}

var frequencyCap = map[persona.HumorFrequency]int{
	persona.FrequencyRare:       1,
	persona.FrequencyOccasional: 2,
	persona.FrequencyFrequent:   4,
}

// minOpportunityGap is the anti-clustering rule: a new opportunity within
// two positions of the previous one is suppressed.
const minOpportunityGap = 2

// appropriateness computes the weighted composite score for a flourish at
// the given stage.
func appropriateness(st State, timing persona.HumorTiming, ph phase, subFormality float64) float64 {
	mult, ok := timingMultiplier[timing]
	if !ok {
		mult = timingMultiplier[persona.TimingGood]
	}
	score := 0.5 * mult

	switch st.Trajectory {
	case Deescalating:
		score += 0.2
	case Escalating:
		score -= 0.1
	}
	if st.Intensity > 0.8 {
		score -= 0.2
	}
	switch ph {
	case phaseResolution:
		score += 0.2
	case phaseInitiation:
		score -= 0.1
	}
	switch {
	case subFormality <= 0.3:
		score += 0.2
	case subFormality >= 0.7:
		score -= 0.2
	}
	return clamp01(score)
}

// IdentifyHumorOpportunities scans the arc for moments where the persona's
// humor style fits. Formal subreddits kill everything but dry humor outright.
func IdentifyHumorOpportunities(arc *Arc, p persona.Persona, sub persona.SubredditContext) []Opportunity {
	if p.Humor == nil {
		return nil
	}
	if sub.FormalityLevel > 0.7 && p.Humor.Type != "dry" {
		return nil
	}

	matches := humorMatches[p.Humor.Type]
	var opps []Opportunity
	lastPos := -minOpportunityGap - 1
	for i, st := range arc.Progression {
		if !emotionIn(st.Primary, matches) {
			continue
		}
		if i-lastPos <= minOpportunityGap {
			continue
		}
		opps = append(opps, Opportunity{
			Position:        i,
			Kind:            HumorOpportunity,
			SubType:         p.Humor.Type,
			Appropriateness: appropriateness(st, p.Humor.Timing, phaseAt(i, len(arc.Progression)), sub.FormalityLevel),
			Trigger:         firstTrigger(st),
		})
		lastPos = i
	}

	limit := frequencyCap[p.Humor.Frequency]
	if limit == 0 {
		limit = frequencyCap[persona.FrequencyOccasional]
	}
	return topByAppropriateness(opps, limit)
}

// vulnerabilityCap bounds admissions per thread. More than two reads as
// fishing for sympathy regardless of persona.
const vulnerabilityCap = 2

// IdentifyVulnerabilityOpportunities flags stages where admitting a mistake
// or a struggle would read as genuine: negative emotions at meaningful but
// not overwhelming intensity.
func IdentifyVulnerabilityOpportunities(arc *Arc, p persona.Persona, sub persona.SubredditContext) []Opportunity {
	timing := persona.TimingGood
	if p.Humor != nil {
		timing = p.Humor.Timing
	}

	var opps []Opportunity
	lastPos := -minOpportunityGap - 1
	for i, st := range arc.Progression {
		if st.Primary != Frustration && st.Primary != Disappointment {
			continue
		}
		// Full-blast stages read as venting, not vulnerability.
		if st.Intensity > 0.85 || st.Intensity < 0.3 {
			continue
		}
		if i-lastPos <= minOpportunityGap {
			continue
		}
		opps = append(opps, Opportunity{
			Position:        i,
			Kind:            VulnerabilityOpportunity,
			SubType:         vulnerabilitySubType(phaseAt(i, len(arc.Progression))),
			Appropriateness: appropriateness(st, timing, phaseAt(i, len(arc.Progression)), sub.FormalityLevel),
			Trigger:         firstTrigger(st),
		})
		lastPos = i
	}
	return topByAppropriateness(opps, vulnerabilityCap)
}

func vulnerabilitySubType(ph phase) string {
	switch ph {
	case phaseInitiation:
		return "struggle"
	case phaseResolution:
		return "lesson_learned"
	default:
		return "admission"
	}
}

func emotionIn(e Emotion, set []Emotion) bool {
	for _, s := range set {
		if s == e {
			return true
		}
	}
	return false
}

func firstTrigger(st State) string {
	if len(st.Triggers) == 0 {
		return ""
	}
	return st.Triggers[0]
}

// topByAppropriateness keeps the n best opportunities, returned in position
// order so downstream prompt composition stays chronological.
func topByAppropriateness(opps []Opportunity, n int) []Opportunity {
	if len(opps) <= n {
		return opps
	}
	ranked := make([]Opportunity, len(opps))
	copy(ranked, opps)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Appropriateness > ranked[j].Appropriateness
	})
	kept := ranked[:n]
	sort.Slice(kept, func(i, j int) bool { return kept[i].Position < kept[j].Position })
	return kept
}
