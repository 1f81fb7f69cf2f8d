// Package emotion models the emotional shape of a conversation: a staged
// arc of emotions for the whole thread, a time-indexed frustration curve for
// the original poster, and detectors that flag moments where humor or an
// admission of weakness would land well.
package emotion

import "fmt"

// Emotion is the closed set of emotions the engine works with.
type Emotion string

const (
	Frustration      Emotion = "frustration"
	Curiosity        Emotion = "curiosity"
	CautiousOptimism Emotion = "cautious_optimism"
	Relief           Emotion = "relief"
	Satisfaction     Emotion = "satisfaction"
	Excitement       Emotion = "excitement"
	Skepticism       Emotion = "skepticism"
	Disappointment   Emotion = "disappointment"
)

// Emotions lists all valid emotion values.
func Emotions() []Emotion {
	return []Emotion{
		Frustration, Curiosity, CautiousOptimism, Relief,
		Satisfaction, Excitement, Skepticism, Disappointment,
	}
}

// Trajectory describes where a stage's intensity is heading.
type Trajectory string

const (
	Escalating   Trajectory = "escalating"
	Stable       Trajectory = "stable"
	Deescalating Trajectory = "deescalating"
)

// ArcType names a built-in narrative shape.
type ArcType string

const (
	ArcDiscovery      ArcType = "discovery"
	ArcComparison     ArcType = "comparison"
	ArcProblemSolver  ArcType = "problem_solver"
	ArcWarStory       ArcType = "war_story"
	ArcVent           ArcType = "vent"
	ArcSkepticConvert ArcType = "skeptic_convert"
	ArcMigration      ArcType = "migration"
)

// ArcTypes lists every arc type the engine knows.
func ArcTypes() []ArcType {
	return []ArcType{
		ArcDiscovery, ArcComparison, ArcProblemSolver, ArcWarStory,
		ArcVent, ArcSkepticConvert, ArcMigration,
	}
}

// ConfigurationError reports an invalid enum value reaching the pipeline.
// Unknown arc types error uniformly across the engine, the frustration
// generator, and the designer rather than silently falling back.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// State is one stage of an emotional arc. Immutable once generated; it lives
// only for the duration of one conversation-generation call.
type State struct {
	Primary    Emotion    `json:"primary"`
	Intensity  float64    `json:"intensity"` // [0,1]
	Trajectory Trajectory `json:"trajectory"`
	Triggers   []string   `json:"triggers"`
	Duration   int        `json:"duration_minutes"`
}

// TurningPoint marks an emotion change between consecutive stages.
type TurningPoint struct {
	Position  int     `json:"position"` // index into Arc.Progression
	Trigger   string  `json:"trigger"`
	From      Emotion `json:"from"`
	To        Emotion `json:"to"`
	Intensity float64 `json:"intensity"`
}

// Arc is a full emotional trajectory for one conversation. Progression has
// one state per comment slot; turning point positions are strictly
// increasing indices into it.
type Arc struct {
	Type          ArcType        `json:"type"`
	Start         State          `json:"start"`
	Progression   []State        `json:"progression"`
	End           State          `json:"end"`
	TurningPoints []TurningPoint `json:"turning_points"`
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
