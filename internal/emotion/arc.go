package emotion

import (
	"github.com/chad/threadsmith/internal/persona"
)

// arcStage is one slot of a base arc pattern before persona adjustment.
type arcStage struct {
	emotion  Emotion
	base     float64
	trigger  string
	duration int // minutes
}

// deltaThreshold is the intensity change needed before a stage reads as
// escalating or deescalating instead of stable.
const deltaThreshold = 0.1

// recoveryMultiplier shortens or stretches back-to-back frustration stages.
var recoveryMultiplier = map[persona.RecoverySpeed]float64{
	persona.RecoveryQuick:    0.6,
	persona.RecoveryModerate: 0.8,
	persona.RecoverySlow:     1.1,
}

// arcPatterns holds the base emotion sequence for every arc type. Stage
// counts must match the designer's comment templates and the frustration
// timelines; TestArcTablesInSync enforces that.
var arcPatterns = map[ArcType][]arcStage{
	ArcDiscovery: {
		{Frustration, 0.8, "hit the wall that prompted the post", 30},
		{Curiosity, 0.6, "a commenter mentions an unfamiliar approach", 45},
		{CautiousOptimism, 0.5, "the approach sounds plausible enough to try", 60},
		{Relief, 0.7, "first attempt actually works", 90},
		{Satisfaction, 0.6, "problem stays solved", 120},
	},
	ArcComparison: {
		{Curiosity, 0.6, "shortlisting options", 30},
		{Skepticism, 0.7, "vendor claims don't add up", 45},
		{Frustration, 0.6, "trials eat a weekend", 60},
		{CautiousOptimism, 0.6, "one option pulls ahead", 90},
		{Satisfaction, 0.7, "decision made and defensible", 120},
	},
	ArcProblemSolver: {
		{Frustration, 0.9, "the problem is blocking real work", 20},
		{Frustration, 0.7, "obvious fixes already failed", 40},
		{Curiosity, 0.6, "a diagnosis finally makes sense", 60},
		{Relief, 0.8, "fix confirmed", 90},
		{Satisfaction, 0.7, "writing up what worked", 150},
	},
	ArcWarStory: {
		{Frustration, 0.85, "retelling the incident", 15},
		{Disappointment, 0.7, "what the postmortem found", 40},
		{Frustration, 0.6, "the fix that almost worked", 70},
		{Relief, 0.7, "the one that did", 100},
		{Satisfaction, 0.65, "lessons that stuck", 150},
	},
	ArcVent: {
		{Frustration, 0.95, "the last straw", 10},
		{Frustration, 0.85, "everything else that's wrong", 30},
		{Disappointment, 0.6, "resignation sets in", 60},
		{Relief, 0.5, "commiseration helps", 90},
		{CautiousOptimism, 0.45, "maybe there's a way out", 140},
	},
	ArcSkepticConvert: {
		{Skepticism, 0.9, "another tool claiming to fix everything", 20},
		{Skepticism, 0.7, "someone posts actual numbers", 50},
		{Curiosity, 0.6, "the numbers hold up", 80},
		{CautiousOptimism, 0.6, "grudging trial", 110},
		{Satisfaction, 0.7, "fine, it works", 160},
	},
	ArcMigration: {
		{Disappointment, 0.7, "the old setup finally broke trust", 25},
		{Curiosity, 0.65, "surveying replacements", 50},
		{Frustration, 0.6, "migration is harder than the docs claim", 80},
		{Relief, 0.75, "cutover went through", 110},
		{Satisfaction, 0.7, "retiring the old system", 170},
	},
}

// GenerateArc builds the emotional trajectory for one conversation. The
// result is deterministic for fixed inputs: base intensities come from the
// arc pattern and are scaled by the persona's emotional profile.
func GenerateArc(p persona.Persona, arc ArcType, problem string) (*Arc, error) {
	pattern, ok := arcPatterns[arc]
	if !ok {
		return nil, &ConfigurationError{Field: "arc type", Value: string(arc)}
	}

	progression := make([]State, len(pattern))
	for i, stage := range pattern {
		resp := p.Emotional.Response(string(stage.emotion))
		intensity := stage.base * resp.Intensity
		if stage.emotion == Frustration && i > 0 && pattern[i-1].emotion == Frustration {
			// Back-to-back frustration decays (or lingers) per recovery speed.
			intensity *= recoveryMultiplier[resp.Recovery]
		}

		triggers := []string{stage.trigger}
		if i == 0 && problem != "" {
			triggers = []string{problem, stage.trigger}
		}

		progression[i] = State{
			Primary:   stage.emotion,
			Intensity: clamp01(intensity),
			Triggers:  triggers,
			Duration:  stage.duration,
		}
	}

	for i := range progression {
		switch {
		case i == 0:
			progression[i].Trajectory = Stable
		case i == len(progression)-1:
			// Arcs always wind down at the end, whatever the deltas say.
			progression[i].Trajectory = Deescalating
		default:
			delta := progression[i].Intensity - progression[i-1].Intensity
			switch {
			case delta > deltaThreshold:
				progression[i].Trajectory = Escalating
			case delta < -deltaThreshold:
				progression[i].Trajectory = Deescalating
			default:
				progression[i].Trajectory = Stable
			}
		}
	}

	var turns []TurningPoint
	for i := 1; i < len(progression); i++ {
		if progression[i].Primary == progression[i-1].Primary {
			continue
		}
		turns = append(turns, TurningPoint{
			Position:  i,
			Trigger:   pattern[i].trigger,
			From:      progression[i-1].Primary,
			To:        progression[i].Primary,
			Intensity: progression[i].Intensity,
		})
	}

	return &Arc{
		Type:          arc,
		Start:         progression[0],
		Progression:   progression,
		End:           progression[len(progression)-1],
		TurningPoints: turns,
	}, nil
}

// StageCount returns the number of stages in an arc pattern, which is also
// the number of comment slots the designer must fill for that arc.
func StageCount(arc ArcType) (int, error) {
	pattern, ok := arcPatterns[arc]
	if !ok {
		return 0, &ConfigurationError{Field: "arc type", Value: string(arc)}
	}
	return len(pattern), nil
}
