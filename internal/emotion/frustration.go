package emotion

import (
	"math"

	"github.com/chad/threadsmith/internal/persona"
)

// CurvePoint is one checkpoint of a frustration curve.
type CurvePoint struct {
	Time     int      `json:"time_minutes"`
	Level    float64  `json:"level"` // [0,1]
	Triggers []string `json:"triggers"`
	Context  string   `json:"context"`
}

// FrustrationCurve tracks a single frustration metric across the lifetime of
// a conversation. Peak is the checkpoint with the highest level; Resolution
// is always the final checkpoint.
type FrustrationCurve struct {
	Timeline   []CurvePoint          `json:"timeline"`
	Peak       CurvePoint            `json:"peak"`
	Resolution CurvePoint            `json:"resolution"`
	Recovery   persona.RecoverySpeed `json:"recovery"`
}

type curveCheckpoint struct {
	time    int
	base    float64
	trigger string
	context string
}

// decayBases are the per-recovery-speed exponential decay constants, applied
// as base^(t/10) so slower recoveries hold frustration noticeably longer.
var decayBases = map[persona.RecoverySpeed]float64{
	persona.RecoveryQuick:    0.95,
	persona.RecoveryModerate: 0.97,
	persona.RecoverySlow:     0.99,
}

var curveTemplates = map[ArcType][]curveCheckpoint{
	ArcDiscovery: {
		{0, 0.85, "problem surfaces", "posting out of frustration"},
		{30, 0.7, "no obvious fix", "reading replies"},
		{60, 0.5, "promising suggestion", "deciding to try it"},
		{120, 0.3, "suggestion works", "tension draining"},
		{240, 0.15, "problem gone", "back to normal"},
	},
	ArcProblemSolver: {
		{0, 0.95, "blocked on real work", "posting mid-incident"},
		{20, 0.9, "quick fixes failed", "escalating"},
		{60, 0.6, "root cause identified", "cautious progress"},
		{120, 0.35, "fix applied", "verifying"},
		{300, 0.1, "stable again", "writing it up"},
	},
	ArcWarStory: {
		{0, 0.8, "retelling the worst of it", "story opens at the peak"},
		{45, 0.65, "the failed rescue attempts", "dark middle"},
		{90, 0.45, "the turning point", "things improve"},
		{180, 0.25, "aftermath", "mostly recovered"},
		{360, 0.1, "hindsight", "it's a story now"},
	},
}

// curveKey maps every arc type onto the nearest of the three built-in
// timelines. Comparison threads open from curiosity like discovery does;
// vents burn like war stories; the convert and migration arcs grind like
// problem solving.
var curveKey = map[ArcType]ArcType{
	ArcDiscovery:      ArcDiscovery,
	ArcComparison:     ArcDiscovery,
	ArcProblemSolver:  ArcProblemSolver,
	ArcSkepticConvert: ArcProblemSolver,
	ArcMigration:      ArcProblemSolver,
	ArcWarStory:       ArcWarStory,
	ArcVent:           ArcWarStory,
}

// GenerateFrustrationCurve produces the time-indexed frustration decay curve
// for a persona working through the given problem.
func GenerateFrustrationCurve(p persona.Persona, problem string, arc ArcType) (*FrustrationCurve, error) {
	key, ok := curveKey[arc]
	if !ok {
		return nil, &ConfigurationError{Field: "arc type", Value: string(arc)}
	}
	template := curveTemplates[key]

	resp := p.FrustrationResponse()
	decay := decayBases[resp.Recovery]
	if decay == 0 {
		decay = decayBases[persona.RecoveryModerate]
	}

	timeline := make([]CurvePoint, len(template))
	for i, cp := range template {
		level := cp.base * resp.Intensity * math.Pow(decay, float64(cp.time)/10)
		triggers := []string{cp.trigger}
		if i == 0 && problem != "" {
			triggers = []string{problem, cp.trigger}
		}
		timeline[i] = CurvePoint{
			Time:     cp.time,
			Level:    clamp01(level),
			Triggers: triggers,
			Context:  cp.context,
		}
	}

	peak := timeline[0]
	for _, pt := range timeline[1:] {
		if pt.Level > peak.Level {
			peak = pt
		}
	}

	return &FrustrationCurve{
		Timeline:   timeline,
		Peak:       peak,
		Resolution: timeline[len(timeline)-1],
		Recovery:   resp.Recovery,
	}, nil
}

// FrustrationAt returns the frustration level at an arbitrary time by
// nearest-checkpoint lookup. No interpolation: tone guidance only needs the
// dominant mood of the surrounding window, and ties go to the earlier point.
func FrustrationAt(curve *FrustrationCurve, minutes int) float64 {
	if len(curve.Timeline) == 0 {
		return 0
	}
	nearest := curve.Timeline[0]
	bestDist := math.Abs(float64(minutes - nearest.Time))
	for _, pt := range curve.Timeline[1:] {
		dist := math.Abs(float64(minutes - pt.Time))
		if dist < bestDist {
			nearest = pt
			bestDist = dist
		}
	}
	return nearest.Level
}
